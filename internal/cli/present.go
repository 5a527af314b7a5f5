package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/roach88/strikes/internal/strike"
)

const (
	timestampLayout = "2006-01-02 15:04:05 MST"
	clockLayout     = "15:04:05 MST"
	ruleLine        = "--------------------"
)

// JSON payloads. Tags encode as null when untagged.

type addPayload struct {
	Entry strike.Entry `json:"entry"`
}

type totalPayload struct {
	Tag   *string `json:"tag"`
	Total int64   `json:"total"`
}

type summaryLinePayload struct {
	Tag      strike.Tag `json:"tag"`
	Subtotal int64      `json:"subtotal"`
}

type summaryPayload struct {
	Groups     []summaryLinePayload `json:"groups"`
	GrandTotal int64                `json:"grand_total"`
}

type detailGroupPayload struct {
	Tag     *strike.Tag    `json:"tag,omitempty"`
	Date    string         `json:"date,omitempty"`
	Entries []strike.Entry `json:"entries"`
}

type detailPayload struct {
	Mode       string               `json:"mode"`
	Tag        *string              `json:"tag"`
	StoreEmpty bool                 `json:"store_empty"`
	Groups     []detailGroupPayload `json:"groups"`
}

type infoPayload struct {
	DBPath  string `json:"db_path"`
	Version string `json:"version"`
}

func filterTag(f strike.Filter) *string {
	if f.IsZero() {
		return nil
	}
	s := f.String()
	return &s
}

func strikesWord(n int64) string {
	if n == 1 {
		return "strike"
	}
	return "strikes"
}

// tagHeading renders a tag the way the summary and detail views name it.
func tagHeading(t strike.Tag) string {
	if name, ok := t.Name(); ok {
		return fmt.Sprintf("Tag '%s'", name)
	}
	return "Untagged"
}

func renderAdd(w io.Writer, e strike.Entry) {
	if name, ok := e.Tag.Name(); ok {
		fmt.Fprintf(w, "Successfully added %d %s with tag '%s'.\n", e.Count, strikesWord(e.Count), name)
		return
	}
	fmt.Fprintf(w, "Successfully added %d %s.\n", e.Count, strikesWord(e.Count))
}

func renderTotal(w io.Writer, f strike.Filter, total int64) {
	switch {
	case f.IsZero() && total == 0:
		fmt.Fprintln(w, "No strikes recorded yet.")
	case f.IsZero():
		fmt.Fprintf(w, "Total strikes: %d\n", total)
	case total == 0:
		fmt.Fprintf(w, "No strikes found for tag '%s'.\n", f)
	default:
		fmt.Fprintf(w, "Total strikes for tag '%s': %d\n", f, total)
	}
}

func renderSummary(w io.Writer, s strike.Summary) {
	if s.Empty() {
		fmt.Fprintln(w, "No strikes recorded yet.")
		return
	}

	fmt.Fprintln(w, "Strike Summary:")
	for _, line := range s.Lines {
		fmt.Fprintf(w, "  %s: %d %s\n", tagHeading(line.Tag), line.Subtotal, strikesWord(line.Subtotal))
	}
	fmt.Fprintln(w, ruleLine)
	fmt.Fprintf(w, "Grand Total: %d %s\n", s.GrandTotal, strikesWord(s.GrandTotal))
}

func renderDetail(w io.Writer, r strike.Report, loc *time.Location) {
	if r.Empty() {
		if r.StoreEmpty {
			fmt.Fprintln(w, "No strikes recorded yet.")
		} else {
			fmt.Fprintf(w, "No strikes found for tag '%s'.\n", r.Filter)
		}
		return
	}

	fmt.Fprintf(w, "Strike Details (%s):\n", r.Mode)
	switch r.Mode {
	case strike.ByTag:
		for _, g := range r.TagGroups {
			fmt.Fprintf(w, "  %s:\n", tagHeading(g.Tag))
			for _, e := range g.Entries {
				fmt.Fprintf(w, "    %s  %d %s\n", e.Timestamp.In(loc).Format(timestampLayout), e.Count, strikesWord(e.Count))
			}
		}
	case strike.ByDate:
		for _, g := range r.DateGroups {
			fmt.Fprintf(w, "  %s:\n", g.Date)
			for _, e := range g.Entries {
				fmt.Fprintf(w, "    %s  %s: %d %s\n", e.Timestamp.In(loc).Format(clockLayout), tagHeading(e.Tag), e.Count, strikesWord(e.Count))
			}
		}
	}
}

func renderInfo(w io.Writer, info infoPayload) {
	fmt.Fprintf(w, "Database: %s\n", info.DBPath)
	fmt.Fprintf(w, "Version: %s\n", info.Version)
}

func summaryData(s strike.Summary) summaryPayload {
	p := summaryPayload{Groups: make([]summaryLinePayload, 0, len(s.Lines)), GrandTotal: s.GrandTotal}
	for _, line := range s.Lines {
		p.Groups = append(p.Groups, summaryLinePayload{Tag: line.Tag, Subtotal: line.Subtotal})
	}
	return p
}

func detailData(r strike.Report) detailPayload {
	p := detailPayload{
		Mode:       r.Mode.String(),
		Tag:        filterTag(r.Filter),
		StoreEmpty: r.StoreEmpty,
		Groups:     []detailGroupPayload{},
	}
	for _, g := range r.TagGroups {
		tag := g.Tag
		p.Groups = append(p.Groups, detailGroupPayload{Tag: &tag, Entries: g.Entries})
	}
	for _, g := range r.DateGroups {
		p.Groups = append(p.Groups, detailGroupPayload{Date: g.Date, Entries: g.Entries})
	}
	return p
}
