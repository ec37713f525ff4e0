package session

// Guard gates protected operations on credential presence. It never calls
// the backend: an expired-but-present opaque token passes the guard and
// fails on its first real request instead.
type Guard struct {
	Store Store
}

// Require returns ErrNoSession when no credential is stored.
func (g Guard) Require() error {
	if g.Store == nil {
		return ErrNoSession
	}
	if _, ok := g.Store.Get(); !ok {
		return ErrNoSession
	}
	return nil
}
