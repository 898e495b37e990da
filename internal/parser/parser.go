package parser

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"docqa/internal/errs"
)

// ReadDocument extracts the raw text of the file at filePath, one paragraph
// per line. Missing files fail with errs.ErrNotFound and unknown formats with
// errs.ErrUnsupportedFormat.
func ReadDocument(filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: the file %s does not exist", errs.ErrNotFound, filePath)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", errs.ErrUnsupportedFormat, filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	var paragraphs []string
	switch ext {
	case ".docx":
		paragraphs, err = parseDOCX(filePath)
	case ".pdf":
		paragraphs, err = parsePDF(filePath)
	case ".pptx":
		paragraphs, err = parsePPTX(filePath)
	case ".xlsx":
		paragraphs, err = parseXLSX(filePath)
	case ".xlsm":
		paragraphs, err = parseXLSM(filePath)
	case ".md", ".markdown":
		paragraphs, err = parseMarkdown(filePath)
	case ".txt":
		paragraphs, err = parseText(filePath)
	default:
		return "", fmt.Errorf("%w: %s", errs.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	log.Debug().Str("file", filePath).Int("paragraphs", len(paragraphs)).Msg("Parsed document")
	return strings.Join(paragraphs, "\n"), nil
}

func parseDOCX(filePath string) ([]string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return docxParagraphs(r.Editable().GetContent())
}

// docxParagraphs walks word/document.xml and emits the text of every w:p
// element, including empty paragraphs.
func docxParagraphs(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var paragraphs []string
	var current strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br":
				current.WriteString(" ")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func parsePDF(filePath string) ([]string, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var paragraphs []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, strings.Split(pageText, "\n")...)
	}
	return paragraphs, nil
}

func parsePPTX(filePath string) ([]string, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var slides []*zip.File
	for _, file := range f.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Name < slides[j].Name })

	var paragraphs []string
	for _, file := range slides {
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, extractTextFromXML(string(data)))
	}
	return paragraphs, nil
}

func parseXLSX(filePath string) ([]string, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var paragraphs []string
	for _, sheet := range f.Sheets {
		paragraphs = append(paragraphs, fmt.Sprintf("Sheet: %s", sheet.Name))
		for _, row := range sheet.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, cell.String())
			}
			paragraphs = append(paragraphs, strings.Join(cells, "\t"))
		}
	}
	return paragraphs, nil
}

func parseXLSM(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var paragraphs []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, fmt.Sprintf("Sheet: %s", sheetName))
		for _, row := range rows {
			paragraphs = append(paragraphs, strings.Join(row, "\t"))
		}
	}
	return paragraphs, nil
}

func parseMarkdown(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return markdownParagraphs(data), nil
}

// markdownParagraphs returns the plain text of each top level block.
func markdownParagraphs(source []byte) []string {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	var paragraphs []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			var sb strings.Builder
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				sb.Write(line.Value(source))
			}
			paragraphs = append(paragraphs, strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")...)
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				paragraphs = append(paragraphs, extractText(item, source))
			}
		default:
			paragraphs = append(paragraphs, extractText(n, source))
		}
	}
	return paragraphs
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString(" ")
			}
		}
		if s, ok := node.(*ast.String); ok {
			sb.Write(s.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func parseText(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return strings.TrimSpace(text.String())
}
