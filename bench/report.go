// MODUL: report
// ZWECK: Ausgabe der Benchmark-Ergebnisse als Markdown-Tabelle oder JSON
// INPUT: Report
// OUTPUT: Markdown (model | size | params | backend | test | t/s) oder JSON
// NEBENEFFEKTE: Schreibt in den uebergebenen io.Writer
// ABHAENGIGKEITEN: tablewriter, encoding/json
// HINWEISE: Groesse in GiB, Parameter in Milliarden, drei signifikante Stellen

package bench

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/smolchat/smolchat/engine"
)

// Report enthaelt die Ergebnisse eines Benchmark-Laufs
type Report struct {
	Model    engine.ModelInfo `json:"model"`
	Params   Params           `json:"params"`
	Results  []Result         `json:"results"`
	Failures int              `json:"failures"`
}

// Result ist eine Zeile des Reports (pp oder tg)
type Result struct {
	Test  string `json:"test"`
	Speed Speed  `json:"speed"`
}

// SizeGiB gibt die Modellgroesse in GiB zurueck
func (r *Report) SizeGiB() float64 {
	return float64(r.Model.Size) / 1024 / 1024 / 1024
}

// ParamsB gibt die Parameterzahl in Milliarden zurueck
func (r *Report) ParamsB() float64 {
	return float64(r.Model.Params) / 1e9
}

// Rows gibt die Tabellenzeilen des Reports zurueck
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, []string{
			r.Model.Description,
			fmt.Sprintf("%.3gGiB", r.SizeGiB()),
			fmt.Sprintf("%.3gB", r.ParamsB()),
			r.Model.Backend,
			res.Test,
			fmt.Sprintf("%.3g ± %.3g", res.Speed.Mean, res.Speed.StdDev),
		})
	}
	return rows
}

// WriteMarkdown schreibt den Report als Markdown-Tabelle
func (r *Report) WriteMarkdown(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"model", "size", "params", "backend", "test", "t/s"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(r.Rows())
	table.Render()
}

// WriteJSON schreibt den Report als eingerueckten JSON-Text
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
