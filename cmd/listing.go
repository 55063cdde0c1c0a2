package cmd

import (
	"fmt"

	"github.com/pterm/pterm"

	"xuc/report"
	"xuc/walk"
)

// renderListing renders the symbols and code of an analyzed module as a pair
// of tables.
func renderListing(res *walk.Result) (string, error) {
	symbolRows := pterm.TableData{{"name", "type", "block"}}
	for _, sym := range res.Symbols {
		symbolRows = append(symbolRows, []string{sym.Name, sym.Type, sym.Block})
	}

	symbolTable, err := pterm.DefaultTable.WithHasHeader().WithData(symbolRows).Srender()
	if err != nil {
		return "", err
	}

	codeRows := pterm.TableData{{"op", "left", "right", "res", "id"}}
	for _, code := range res.Codes {
		codeRows = append(codeRows, []string{code.Op, code.Left, code.Right, code.Res, code.ID})
	}

	codeTable, err := pterm.DefaultTable.WithHasHeader().WithData(codeRows).Srender()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"%s %s\n\n%s\n%s\n\n%s\n%s\n\n",
		report.InfoColorFG.Sprint("Module"),
		res.Module,
		report.InfoColorFG.Sprint("Symbols"),
		symbolTable,
		report.InfoColorFG.Sprint("Three Address Codes"),
		codeTable,
	), nil
}
