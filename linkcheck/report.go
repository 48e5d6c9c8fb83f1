package linkcheck

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// WriteReport writes a Markdown summary of a check run to w.
func WriteReport(w io.Writer, siteName string, results []Result) error {
	var broken []Result
	for _, r := range results {
		if !r.OK {
			broken = append(broken, r)
		}
	}

	md := markdown.NewMarkdown(w)
	md.H1("Outbound Link Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", siteName},
			{"Links Checked", strconv.Itoa(len(results))},
			{"Broken", strconv.Itoa(len(broken))},
		},
	})
	md.PlainText("")

	if len(broken) == 0 {
		md.PlainText("All outbound links are reachable.")
		return md.Build()
	}

	md.H2("Broken Links")
	md.PlainText("")
	rows := make([][]string, 0, len(broken))
	for _, r := range broken {
		status := strconv.Itoa(r.Status)
		if r.Status == 0 {
			status = "-"
		}
		rows = append(rows, []string{r.Slug, r.URL, status, r.Error})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Post", "URL", "Status", "Error"},
		Rows:   rows,
	})
	return md.Build()
}
