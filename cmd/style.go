package main

import (
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/DanielDiaz18/hashdb/ledger"
)

const timeLayout = "2006-01-02 15:04:05"

func renderBlock(b ledger.Block) string {
	pbox := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTopPadding(0).WithBottomPadding(0)
	title := pterm.LightCyan("Block #" + strconv.Itoa(b.Index))
	if b.Index == 0 {
		title += pterm.Gray(" (genesis)")
	}
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf(
		"Timestamp:       %s\nPayload:         %s\nPrevious digest: %s\nDigest:          %s",
		time.Unix(b.Timestamp, 0).Format(timeLayout),
		string(b.Payload),
		b.PreviousDigest,
		b.Digest,
	)
}

func printChain(c *ledger.Chain) {
	pterm.DefaultHeader.WithFullWidth().Printfln("BLOCKCHAIN - %d blocks", c.Len())
	for _, b := range c.Blocks() {
		pterm.Println(renderBlock(b))
	}
}

func printResult(r ledger.Result, blocks int) {
	if r.Valid {
		pterm.Success.Printfln("The chain is VALID: all %d blocks are correctly linked", blocks)
		return
	}
	pterm.Error.Printfln("The chain is CORRUPTED: %s", r)
	switch r.Reason {
	case ledger.ReasonDigestMismatch:
		pterm.Printfln("  stored digest:   %s", r.Actual)
		pterm.Printfln("  computed digest: %s", r.Expected)
	case ledger.ReasonBrokenLink:
		pterm.Printfln("  expected previous digest: %s", r.Expected)
		pterm.Printfln("  recorded previous digest: %s", r.Actual)
	}
	pterm.Warning.Println("The integrity of the ledger has been compromised")
}

func printStats(s ledger.Stats) error {
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Statistic", "Value"},
		{"Blocks", strconv.Itoa(s.Blocks)},
		{"Payload bytes", strconv.Itoa(s.PayloadBytes)},
		{"First block", time.Unix(s.FirstTimestamp, 0).Format(timeLayout)},
		{"Last block", time.Unix(s.LastTimestamp, 0).Format(timeLayout)},
		{"Tail digest", s.Tail.String()},
		{"Hash function", s.HashFunction},
	}).Render()
}
