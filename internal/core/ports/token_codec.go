package ports

// TokenCodec issues and inspects signed bearer tokens.
type TokenCodec interface {
	Issue(subject, role string) (string, error)
	DecodeSubject(token string) (string, error)
	DecodeRole(token string) (string, error)
	IsValid(token, expectedSubject string) bool
}
