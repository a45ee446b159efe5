package store_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"paylink/internal/store"
)

func writeBlob(t *testing.T, home string, blob map[string]any) {
	t.Helper()
	b, err := json.Marshal(blob)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, "profile.json"), b, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSealed_RejectsOversizedParams(t *testing.T) {
	cases := []struct {
		name    string
		n, r, p int
	}{
		{"huge N", 1 << 30, 8, 1},
		{"huge r", 1 << 15, 1024, 1},
		{"huge p", 1 << 15, 8, 64},
		{"zero N", 0, 8, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			home := t.TempDir()
			writeBlob(t, home, map[string]any{
				"v": 2, "salt": make([]byte, 16),
				"scrypt_N": tc.n, "scrypt_r": tc.r, "scrypt_p": tc.p,
				"nonce": make([]byte, 24), "cipher": make([]byte, 32),
			})
			b, err := store.OpenBackend(store.KindFile, home, "pw")
			if err != nil {
				t.Fatalf("open backend: %v", err)
			}
			if _, err := b.Load(); !errors.Is(err, store.ErrSealParams) {
				t.Fatalf("want ErrSealParams, got %v", err)
			}
		})
	}
}

func TestSealed_DerivesKeyOnce(t *testing.T) {
	calls, restore := store.CountDerivations()
	defer restore()

	b, err := store.OpenBackend(store.KindFile, t.TempDir(), "pw")
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	s := store.NewProfileStore(b)
	for i := 0; i < 3; i++ {
		if err := s.SaveSession(sampleSession()); err != nil {
			t.Fatalf("save: %v", err)
		}
		if _, _, err := s.LoadSession(); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if *calls != 1 {
		t.Fatalf("scrypt ran %d times, want 1", *calls)
	}
}

func TestSealed_FreshNoncePerWrite(t *testing.T) {
	home := t.TempDir()
	b, err := store.OpenBackend(store.KindFile, home, "pw")
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	read := func() (blob struct {
		Salt  []byte `json:"salt"`
		Nonce []byte `json:"nonce"`
	}) {
		raw, err := os.ReadFile(filepath.Join(home, "profile.json"))
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if err := json.Unmarshal(raw, &blob); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return blob
	}

	if err := b.Checkpoint([]byte(`{"v":1}`)); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	first := read()
	if err := b.Checkpoint([]byte(`{"v":1}`)); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	second := read()

	if string(first.Salt) != string(second.Salt) {
		t.Fatal("salt changed between writes of one backend")
	}
	if len(first.Nonce) != chacha20poly1305.NonceSizeX || string(first.Nonce) == string(second.Nonce) {
		t.Fatal("nonce reused across writes")
	}
}

func TestSealed_ReadsVersion1(t *testing.T) {
	home := t.TempDir()
	salt := make([]byte, 16)
	salt[0] = 7
	key, err := scrypt.Key([]byte("pw"), salt, 1<<10, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		t.Fatalf("scrypt: %v", err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		t.Fatalf("aead: %v", err)
	}
	ct := aead.Seal(nil, make([]byte, chacha20poly1305.NonceSize), []byte(`{"v":1}`), salt)
	writeBlob(t, home, map[string]any{
		"v": 1, "salt": salt, "scrypt_N": 1 << 10, "scrypt_r": 8, "scrypt_p": 1, "cipher": ct,
	})

	b, err := store.OpenBackend(store.KindFile, home, "pw")
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"v":1}` {
		t.Fatalf("plaintext = %s", got)
	}
}
