package tboxtiming

import "testing"

func TestAESOracleEncryptIsDeterministicUnderAFixedKey(t *testing.T) {
	o := NewAESOracle()
	var key Block
	for i := range key {
		key[i] = byte(i)
	}
	if err := o.Expand(key); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	a := o.Encrypt(ZeroBlock)
	b := o.Encrypt(ZeroBlock)
	if a != b {
		t.Fatalf("Encrypt(ZeroBlock) = %s then %s, want identical ciphertexts under a fixed key", a, b)
	}
}

func TestAESOracleDifferentKeysProduceDifferentCiphertexts(t *testing.T) {
	o := NewAESOracle()
	var key1, key2 Block
	key2[0] = 0x01

	if err := o.Expand(key1); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	a := o.Encrypt(ZeroBlock)

	if err := o.Expand(key2); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	b := o.Encrypt(ZeroBlock)

	if a == b {
		t.Fatal("expected different keys to produce different ciphertexts for the same plaintext")
	}
}
