package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrNoStartSymbol       = newSemanticError("the start symbol has no production")
	semErrUnusedProduction    = newSemanticError("unused production")
	semErrUnusedTerminal      = newSemanticError("unused terminal")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrReservedSym         = newSemanticError("a reserved symbol cannot appear in a production")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
	semErrDuplicateKind       = newSemanticError("duplicate token kind")
	semErrInvalidKind         = newSemanticError("a token kind must be >= 1; 0 means the end of input")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrSRConflict          = newSemanticError("shift/reduce conflict")
	semErrRRConflict          = newSemanticError("reduce/reduce conflict")
)
