package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FileText reads the text content of an uploaded document, dispatching on
// the file extension. Supported formats: PDF, XLSX, DOCX. Extraction is
// best-effort: a page, row, or paragraph that fails to parse is skipped and
// the text gathered so far is still returned. An unsupported extension or an
// unreadable container returns an error.
func FileText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfText(path)
	case ".xlsx":
		return xlsxText(path)
	case ".docx":
		return docxText(path)
	default:
		return "", fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
}

// pdfText extracts plain text page by page. Unreadable pages are skipped.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// docxText extracts paragraph and table text from the OpenXML document part.
// DOCX is a zip container; the main content lives in word/document.xml and
// every visible run is a <w:t> element.
func docxText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx container: %w", err)
	}

	doc, err := zipEntry(zr, "word/document.xml")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	dec := xml.NewDecoder(bytes.NewReader(doc))
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Truncated or malformed XML: keep what was gathered.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "tr":
				sb.WriteString("\n")
			case "tc":
				sb.WriteString(" ")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// xlsxText extracts cell text sheet by sheet, one row per line. Shared
// strings are resolved through xl/sharedStrings.xml; cells that fail to
// resolve are skipped.
func xlsxText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open xlsx container: %w", err)
	}

	shared := sharedStrings(zr)

	var sb strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "xl/worksheets/sheet") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		sheet, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		writeSheetText(&sb, sheet, shared)
	}
	return sb.String(), nil
}

// writeSheetText walks one worksheet XML document, emitting cell values
// separated by spaces and rows separated by newlines.
func writeSheetText(sb *strings.Builder, sheet []byte, shared []string) {
	type cell struct {
		T string `xml:"t,attr"`
		V string `xml:"v"`
		// Inline strings nest the text under is/t.
		IS struct {
			T string `xml:"t"`
		} `xml:"is"`
	}

	dec := xml.NewDecoder(bytes.NewReader(sheet))
	rowHasText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				rowHasText = false
			case "c":
				var c cell
				if err := dec.DecodeElement(&c, &t); err != nil {
					continue
				}
				value := cellValue(c.T, c.V, c.IS.T, shared)
				if value != "" {
					if rowHasText {
						sb.WriteString(" ")
					}
					sb.WriteString(value)
					rowHasText = true
				}
			}
		case xml.EndElement:
			if t.Name.Local == "row" && rowHasText {
				sb.WriteString("\n")
			}
		}
	}
}

// cellValue resolves one cell to its display text.
func cellValue(cellType, rawValue, inlineText string, shared []string) string {
	switch cellType {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(rawValue))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return inlineText
	default:
		return strings.TrimSpace(rawValue)
	}
}

// sharedStrings loads the shared-string table, or nil if the workbook has
// none. Each <si> item may split its text across multiple <t> runs.
func sharedStrings(zr *zip.Reader) []string {
	data, err := zipEntry(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil
	}

	var table struct {
		Items []struct {
			Texts []string `xml:"t"`
			Runs  []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"si"`
	}
	if err := xml.Unmarshal(data, &table); err != nil {
		return nil
	}

	strs := make([]string, len(table.Items))
	for i, item := range table.Items {
		var sb strings.Builder
		for _, t := range item.Texts {
			sb.WriteString(t)
		}
		for _, r := range item.Runs {
			sb.WriteString(r.Text)
		}
		strs[i] = sb.String()
	}
	return strs
}

// zipEntry reads a single named file out of a zip container.
func zipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("missing container entry: %s", name)
}
