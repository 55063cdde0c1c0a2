package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"xuc/common"
	"xuc/walk"
)

// writeHandOff writes the code of an analyzed module to the output directory
// in the given format.  The file is named after the AST document it came from.
// It returns the path of the written file.
func writeHandOff(outDir, documentPath string, res *walk.Result, format string) (string, error) {
	prog := res.Program()

	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case EmitJSON:
		data, err = prog.EncodeJSON()
		ext = ".tac.json"
	case EmitCBOR:
		data, err = prog.EncodeCBOR()
		ext = ".tac.cbor"
	default:
		return "", nil
	}

	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return "", err
	}

	name := strings.TrimSuffix(filepath.Base(documentPath), common.ASTFileExt) + ext
	outPath := filepath.Join(outDir, name)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", err
	}

	return outPath, nil
}
