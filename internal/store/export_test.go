package store

// CountDerivations counts scrypt derivations until the returned restore
// func is called.
func CountDerivations() (calls *int, restore func()) {
	n := 0
	orig := scryptKey
	scryptKey = func(password, salt []byte, N, r, p, keyLen int) ([]byte, error) {
		n++
		return orig(password, salt, N, r, p, keyLen)
	}
	return &n, func() { scryptKey = orig }
}
