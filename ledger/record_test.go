package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRecordsRoundTrip(t *testing.T) {
	c := newTestChain(t, "alice pays bob 10", "bob pays carol 5", "")

	loaded, err := FromRecords(c.Records())
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	assertSameBlocks(t, c.Blocks(), loaded.Blocks())
	if r := loaded.Verify(); !r.Valid {
		t.Fatalf("expected loaded chain to be Valid, got %s", r)
	}
}

func TestRecordsRoundTripKeepsTamper(t *testing.T) {
	c := newTestChain(t, "alice pays bob 10", "bob pays carol 5")
	if err := Tamper(c, 1, []byte("alice pays bob 1000")); err != nil {
		t.Fatal(err)
	}

	loaded, err := FromRecords(c.Records())
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	assertSameBlocks(t, c.Blocks(), loaded.Blocks())
	if got, want := loaded.Verify(), c.Verify(); got != want {
		t.Fatalf("loaded chain verifies as %s, original as %s", got, want)
	}
}

func TestRecordJSONFieldNames(t *testing.T) {
	c := newTestChain(t, "x")

	data, err := json.Marshal(c.Records())
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"index", "timestamp", "payload", "previous_digest", "digest"} {
		if _, ok := raw[1][field]; !ok {
			t.Errorf("missing field %q in %s", field, data)
		}
	}
	if raw[0]["previous_digest"] != strings.Repeat("0", 64) {
		t.Errorf("unexpected genesis previous digest %v", raw[0]["previous_digest"])
	}
}

func TestFromRecordsEmptySeedsGenesis(t *testing.T) {
	c, err := FromRecords(nil)
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected genesis only, got %d blocks", c.Len())
	}
}

func TestRecordsBeforeEpochRoundTrip(t *testing.T) {
	c, err := New(WithClock(stepClock(time.Unix(-100, 0), time.Second)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Append([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if r := c.Verify(); !r.Valid {
		t.Fatalf("expected Valid, got %s", r)
	}

	loaded, err := FromRecords(c.Records())
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	assertSameBlocks(t, c.Blocks(), loaded.Blocks())
	if r := loaded.Verify(); !r.Valid {
		t.Fatalf("expected Valid after load, got %s", r)
	}
}

func TestFromRecordsMalformed(t *testing.T) {
	tests := map[string]string{
		"missing digest": `[{"index":0,"timestamp":1,"payload":"g","previous_digest":"` + strings.Repeat("0", 64) + `"}]`,
		"missing index":  `[{"timestamp":1,"payload":"g","previous_digest":"` + strings.Repeat("0", 64) + `","digest":"` + strings.Repeat("1", 64) + `"}]`,
		"short digest":   `[{"index":0,"timestamp":1,"payload":"g","previous_digest":"00","digest":"` + strings.Repeat("1", 64) + `"}]`,
		"non hex digest": `[{"index":0,"timestamp":1,"payload":"g","previous_digest":"` + strings.Repeat("0", 64) + `","digest":"` + strings.Repeat("z", 64) + `"}]`,
		"negative index": `[{"index":-1,"timestamp":1,"payload":"g","previous_digest":"` + strings.Repeat("0", 64) + `","digest":"` + strings.Repeat("1", 64) + `"}]`,
		"null payload":   `[{"index":0,"timestamp":1,"payload":null,"previous_digest":"` + strings.Repeat("0", 64) + `","digest":"` + strings.Repeat("1", 64) + `"}]`,
	}
	for name, doc := range tests {
		var records []Record
		if err := json.Unmarshal([]byte(doc), &records); err != nil {
			t.Fatalf("%s: test document does not decode: %v", name, err)
		}
		if _, err := FromRecords(records); !errors.Is(err, ErrMalformedChain) {
			t.Errorf("%s: expected ErrMalformedChain, got %v", name, err)
		}
	}
}

func TestFromRecordsDoesNotCheckIntegrity(t *testing.T) {
	doc := `[{"index":0,"timestamp":1,"payload":"g","previous_digest":"` + strings.Repeat("0", 64) + `","digest":"` + strings.Repeat("1", 64) + `"}]`
	var records []Record
	if err := json.Unmarshal([]byte(doc), &records); err != nil {
		t.Fatal(err)
	}
	c, err := FromRecords(records)
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	if r := c.Verify(); r.Valid || r.Reason != ReasonDigestMismatch {
		t.Fatalf("expected digest mismatch, got %s", r)
	}
}

func assertSameBlocks(t *testing.T, want, got []Block) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.Index != w.Index || g.Timestamp != w.Timestamp ||
			g.PreviousDigest != w.PreviousDigest || g.Digest != w.Digest ||
			!bytes.Equal(g.Payload, w.Payload) {
			t.Fatalf("block %d differs: got %+v, want %+v", i, g, w)
		}
	}
}
