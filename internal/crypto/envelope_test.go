package crypto_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"paylink/internal/crypto"
	"paylink/internal/domain"
)

func newDevice(t *testing.T) (domain.X25519Private, domain.X25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	return priv, pub
}

func TestSealDecrypt_RoundTrip(t *testing.T) {
	priv, pub := newDevice(t)

	payloads := []string{
		`{"id":"u1","email":"ops@example.com"}`,
		`[{"currency":"USD","balance":"10.00"},{"currency":"NGN","balance":"0"}]`,
		`"plain string"`,
		`null`,
	}
	for _, want := range payloads {
		data, handshake, err := crypto.Seal(pub, []byte(want))
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		got, err := crypto.Decrypt(data, handshake, priv)
		if err != nil {
			t.Fatalf("Decrypt(%s): %v", want, err)
		}
		if string(got) != want {
			t.Fatalf("round trip: want %s, got %s", want, got)
		}

		again, err := crypto.ParseData(data, priv, handshake)
		if err != nil {
			t.Fatalf("ParseData: %v", err)
		}
		if string(again) != want {
			t.Fatal("ParseData is not deterministic with Decrypt")
		}
	}
}

func TestDecrypt_WrongDevice_Fails(t *testing.T) {
	_, pub := newDevice(t)
	otherPriv, _ := newDevice(t)

	data, handshake, err := crypto.Seal(pub, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := crypto.Decrypt(data, handshake, otherPriv)
	if !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption, got %v", err)
	}
	if got != nil {
		t.Fatalf("want no data on failure, got %s", got)
	}
}

func TestDecrypt_HandshakeFromOtherResponse_Fails(t *testing.T) {
	priv, pub := newDevice(t)

	data1, _, err := crypto.Seal(pub, []byte(`{"n":1}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	_, handshake2, err := crypto.Seal(pub, []byte(`{"n":2}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	// Same ciphertext, different handshake: must not reuse anything.
	if _, err := crypto.Decrypt(data1, handshake2, priv); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption for mismatched handshake, got %v", err)
	}
}

func TestDecrypt_TamperedCiphertext_Fails(t *testing.T) {
	priv, pub := newDevice(t)
	data, handshake, err := crypto.Seal(pub, []byte(`{"amount":"100.00"}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(data)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := crypto.Decrypt(tampered, handshake, priv); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption, got %v", err)
	}
}

func TestDecrypt_EmptyPayload(t *testing.T) {
	priv, pub := newDevice(t)
	_, handshake, err := crypto.Seal(pub, []byte(`{}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := crypto.Decrypt("", handshake, priv); !errors.Is(err, domain.ErrEmptyPayload) {
		t.Fatalf("want ErrEmptyPayload, got %v", err)
	}
}

func TestDecrypt_MalformedHandshake(t *testing.T) {
	priv, pub := newDevice(t)
	data, handshake, err := crypto.Seal(pub, []byte(`{}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	cases := map[string]string{
		"empty":     "",
		"not b64":   "!!!not-base64!!!",
		"too short": handshake[:10],
		"too long":  handshake + "AAAA",
		"zero key":  base64.RawURLEncoding.EncodeToString(make([]byte, 48)),
	}
	for name, hs := range cases {
		_, err := crypto.Decrypt(data, hs, priv)
		if !errors.Is(err, domain.ErrInvalidHandshake) {
			t.Fatalf("%s: want ErrInvalidHandshake, got %v", name, err)
		}
		if errors.Is(err, domain.ErrDecryption) {
			t.Fatalf("%s: handshake errors must stay distinct from decryption errors", name)
		}
	}
}

func TestDecrypt_ErrorsCarryNoKeyMaterial(t *testing.T) {
	priv, pub := newDevice(t)
	otherPriv, _ := newDevice(t)
	data, handshake, err := crypto.Seal(pub, []byte(`{}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	_, err = crypto.Decrypt(data, handshake, otherPriv)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, secret := range []string{
		base64.StdEncoding.EncodeToString(priv[:]),
		base64.StdEncoding.EncodeToString(otherPriv[:]),
		handshake,
		data,
	} {
		if strings.Contains(err.Error(), secret) {
			t.Fatalf("error text leaks material: %v", err)
		}
	}
}

func TestDecrypt_NonJSONPlaintext_Fails(t *testing.T) {
	priv, pub := newDevice(t)
	data, handshake, err := crypto.Seal(pub, []byte("not json"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := crypto.Decrypt(data, handshake, priv); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption, got %v", err)
	}
}

func TestHandshake_StringParse(t *testing.T) {
	_, pub := newDevice(t)
	_, token, err := crypto.Seal(pub, []byte(`{}`))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	h, err := crypto.ParseHandshake(token)
	if err != nil {
		t.Fatalf("ParseHandshake: %v", err)
	}
	if h.String() != token {
		t.Fatalf("token changed: %q vs %q", h.String(), token)
	}
	if len(h.Bytes()) != 48 {
		t.Fatalf("want 48 raw bytes, got %d", len(h.Bytes()))
	}
}

func TestPrivateKey_NotPrinted(t *testing.T) {
	priv, _ := newDevice(t)
	b, err := json.Marshal(struct{ K domain.X25519Private }{priv})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), base64.StdEncoding.EncodeToString(priv[:])) {
		t.Fatal("persisted form must keep the key")
	}
	if strings.Contains(priv.String(), base64.StdEncoding.EncodeToString(priv[:])) {
		t.Fatal("String must redact the key")
	}
}
