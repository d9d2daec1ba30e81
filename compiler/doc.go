/*
Process of parsing

	Program Text ->
		lex ->
	Tokens (lex.Tokens) ->
		parse ->
	Abstract Syntax Tree (ast) ->
		format ->
	Program Text

Grammar

	expression   := primary following?
	primary      := NUMBER | IDENTIFIER
	following    := addition | where_clause
	addition     := PLUS expression
	where_clause := COMMA WHERE IDENTIFIER EQUALS expression
*/
package compiler
