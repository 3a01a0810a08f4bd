package keyring

// Reference points at an entry of the credential store. It is not itself a
// secret and is safe to log.
type Reference struct {
	Service string
	Account string
}

// String returns the reference in service/account form.
func (r Reference) String() string {
	return r.Service + "/" + r.Account
}
