// Copyright Conjure-CP Contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package essence

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// essenceLexer tokenises the Essence subset.  Order matters: multi-character
// operators are matched before their single-character prefixes, and the
// boolean connectives get their own token types so the grammar can name them
// without escaping backslashes.
var essenceLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Essence comments run from '$' to end of line.
		{Name: "Comment", Pattern: `\$[^\n]*`},

		// Boolean connectives.
		{Name: "IffOp", Pattern: `<->`},
		{Name: "ImplyOp", Pattern: `->`},
		{Name: "AndOp", Pattern: `/\\`},
		{Name: "OrOp", Pattern: `\\/`},

		// Multi-character operators.
		{Name: "Le", Pattern: `<=`},
		{Name: "Ge", Pattern: `>=`},
		{Name: "Ne", Pattern: `!=`},
		{Name: "Pow", Pattern: `\*\*`},
		{Name: "DotDot", Pattern: `\.\.`},

		// Keywords and identifiers.
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_']*`},

		// Integer literals.
		{Name: "Integer", Pattern: `[0-9]+`},

		// Single-character operators.
		{Name: "Operator", Pattern: `[-+*/%=<>!|]`},

		// Punctuation.
		{Name: "Punct", Pattern: `[()\[\]{},:;]`},

		// Whitespace.
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})
