package recognize

import "strings"

// AnalyzeResult is the nested page/line payload returned by a completed job.
type AnalyzeResult struct {
	ReadResults []ReadResult `json:"readResults"`
}

// ReadResult is one recognized page.
type ReadResult struct {
	Lines []Line `json:"lines"`
}

// Line is one recognized line of text.
type Line struct {
	Text string `json:"text"`
}

// Normalize flattens a recognition result into a single string and a page
// count. Lines within a page join with a line break, pages are separated by a
// blank line, and the final result is trimmed. Nil or empty input yields an
// empty string and zero pages.
func Normalize(result AnalyzeResult) (string, int) {
	if len(result.ReadResults) == 0 {
		return "", 0
	}

	pages := make([]string, 0, len(result.ReadResults))
	for _, page := range result.ReadResults {
		lines := make([]string, 0, len(page.Lines))
		for _, line := range page.Lines {
			lines = append(lines, line.Text)
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}

	return strings.TrimSpace(strings.Join(pages, "\n\n")), len(result.ReadResults)
}
