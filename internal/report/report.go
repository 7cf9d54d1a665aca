package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/contactkeval/bs-pricer/internal/quote"
)

const (
	JSONFile = "quotes.json"
	CSVFile  = "quotes.csv"
)

type csvRow struct {
	ID             string `csv:"id"`
	Symbol         string `csv:"symbol"`
	Underlying     string `csv:"underlying"`
	Type           string `csv:"type"`
	Spot           string `csv:"spot"`
	Strike         string `csv:"strike"`
	TimeToMaturity string `csv:"time_to_maturity"`
	Rate           string `csv:"rate"`
	Volatility     string `csv:"volatility"`
	Premium        string `csv:"premium"`
	Intrinsic      string `csv:"intrinsic"`
	Error          string `csv:"error"`
}

func WriteJSON(res *quote.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal result")
	}
	return os.WriteFile(filepath.Join(outdir, JSONFile), b, 0644)
}

func WriteCSV(quotes []quote.Quote, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, CSVFile))
	if err != nil {
		return err
	}
	defer f.Close()

	rows := make([]*csvRow, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, toRow(q))
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Wrap(err, "write quotes csv")
	}
	return nil
}

// RenderTable prints quotes as an aligned text table.
func RenderTable(w io.Writer, quotes []quote.Quote) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Symbol", "Type", "Spot", "Strike", "T", "Vol", "Premium", "Error"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)

	for _, q := range quotes {
		r := toRow(q)
		symbol := r.Symbol
		if symbol == "" {
			symbol = r.Underlying
		}
		table.Append([]string{r.ID, symbol, r.Type, r.Spot, r.Strike, r.TimeToMaturity, r.Volatility, r.Premium, r.Error})
	}
	table.Render()
}

func toRow(q quote.Quote) *csvRow {
	r := &csvRow{
		ID:         q.ID,
		Symbol:     q.Symbol,
		Underlying: q.Underlying,
		Strike:     fmt.Sprintf("%.2f", q.Strike),
		Error:      q.Error,
	}
	if q.Type.Valid() {
		r.Type = q.Type.String()
	}
	if q.Error == "" {
		r.Spot = fmt.Sprintf("%.2f", q.Spot)
		r.TimeToMaturity = fmt.Sprintf("%.4f", q.TimeToMaturity)
		r.Rate = fmt.Sprintf("%.4f", q.Rate)
		r.Volatility = fmt.Sprintf("%.4f", q.Volatility)
		places := -q.Premium.Exponent()
		r.Premium = q.Premium.StringFixed(places)
		r.Intrinsic = q.Intrinsic.StringFixed(places)
	}
	return r
}
