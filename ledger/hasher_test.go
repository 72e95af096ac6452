package ledger

import (
	"errors"
	"fmt"
	"testing"
)

func TestDigestIsDeterministic(t *testing.T) {
	prev := Digest{1, 2, 3}
	d1, err := SHA256.Digest(4, 1700000000, []byte("alice pays bob 10"), prev)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	d2, err := SHA256.Digest(4, 1700000000, []byte("alice pays bob 10"), prev)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected same digest for same inputs, got %s vs %s", d1, d2)
	}
}

func TestDigestChangesWithEveryField(t *testing.T) {
	base, err := SHA256.Digest(1, 100, []byte("payload"), Digest{9})
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	variants := map[string]func() (Digest, error){
		"index": func() (Digest, error) {
			return SHA256.Digest(2, 100, []byte("payload"), Digest{9})
		},
		"timestamp": func() (Digest, error) {
			return SHA256.Digest(1, 101, []byte("payload"), Digest{9})
		},
		"payload": func() (Digest, error) {
			return SHA256.Digest(1, 100, []byte("payloaD"), Digest{9})
		},
		"previous": func() (Digest, error) {
			return SHA256.Digest(1, 100, []byte("payload"), Digest{8})
		},
	}
	for field, digest := range variants {
		d, err := digest()
		if err != nil {
			t.Fatalf("%s: Digest failed: %v", field, err)
		}
		if d == base {
			t.Errorf("changing %s did not change the digest", field)
		}
	}
}

func TestDigestHasNoCollisionsAcrossPayloads(t *testing.T) {
	seen := make(map[Digest]string)
	for i := 0; i < 500; i++ {
		payload := fmt.Sprintf("transfer #%d", i)
		d, err := SHA256.Digest(1, 100, []byte(payload), GenesisDigest)
		if err != nil {
			t.Fatalf("Digest failed: %v", err)
		}
		if other, ok := seen[d]; ok {
			t.Fatalf("payloads %q and %q share digest %s", other, payload, d)
		}
		seen[d] = payload
	}
}

func TestCanonicalEncodingIsUnambiguous(t *testing.T) {
	// A plain concatenation would give "1" + "23" == "12" + "3".
	d1, err := SHA256.Digest(1, 23, []byte("ab"), GenesisDigest)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := SHA256.Digest(12, 3, []byte("ab"), GenesisDigest)
	if err != nil {
		t.Fatal(err)
	}
	if d1 == d2 {
		t.Fatalf("different fields produced the same digest %s", d1)
	}
}

func TestDigestRejectsInvalidPayload(t *testing.T) {
	_, err := SHA256.Digest(1, 1, []byte{0xff, 0xfe}, GenesisDigest)
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
	_, err = SHA256.Digest(-1, 1, []byte("ok"), GenesisDigest)
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding for negative index, got %v", err)
	}
}

func TestHashersDisagree(t *testing.T) {
	s, err := SHA256.Digest(0, 0, []byte("genesis"), GenesisDigest)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BLAKE2b.Digest(0, 0, []byte("genesis"), GenesisDigest)
	if err != nil {
		t.Fatal(err)
	}
	if s == b {
		t.Fatalf("sha256 and blake2b produced the same digest %s", s)
	}
}

func TestHasherByName(t *testing.T) {
	for _, name := range []string{"sha256", "blake2b"} {
		h, err := HasherByName(name)
		if err != nil {
			t.Fatalf("HasherByName(%q) failed: %v", name, err)
		}
		if h.Name() != name {
			t.Errorf("got hasher %q, want %q", h.Name(), name)
		}
	}
	if _, err := HasherByName("md5"); err == nil {
		t.Fatal("expected error for unknown hash function")
	}
}

func TestZeroHasherUsesSHA256(t *testing.T) {
	var h Hasher
	got, err := h.Digest(3, 3, []byte("x"), GenesisDigest)
	if err != nil {
		t.Fatal(err)
	}
	want, err := SHA256.Digest(3, 3, []byte("x"), GenesisDigest)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseDigest(t *testing.T) {
	d, err := SHA256.Digest(0, 0, nil, GenesisDigest)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseDigest(d.String())
	if err != nil {
		t.Fatalf("ParseDigest failed: %v", err)
	}
	if parsed != d {
		t.Fatalf("got %s, want %s", parsed, d)
	}

	if _, err := ParseDigest("0"); err == nil {
		t.Fatal("expected error for short digest")
	}
	if _, err := ParseDigest(string(make([]byte, 64))); err == nil {
		t.Fatal("expected error for non hex digest")
	}
	if !GenesisDigest.IsZero() {
		t.Fatal("genesis digest must be zero")
	}
}
