package models

// TokenPair is the credential pair issued by the remote API. Both tokens are
// opaque bearer strings; nothing in this service inspects or decodes them.
// The pair is always replaced as a unit.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (p TokenPair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
