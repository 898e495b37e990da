package parser

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docqa/internal/errs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDocumentText(t *testing.T) {
	path := writeFile(t, "story.txt", "The magic flower glows at night.\n\nThe castle has three towers.\n")
	text, err := ReadDocument(path)
	require.NoError(t, err)
	require.Equal(t, "The magic flower glows at night.\n\nThe castle has three towers.\n", text)
}

func TestReadDocumentMissing(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "nope.docx"))
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.True(t, errs.IsNotFound(err))
}

func TestReadDocumentUnsupported(t *testing.T) {
	path := writeFile(t, "image.png", "not really a png")
	_, err := ReadDocument(path)
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)

	_, err = ReadDocument(t.TempDir())
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}

func TestReadDocumentMarkdown(t *testing.T) {
	path := writeFile(t, "notes.md", "# Title\n\nFirst paragraph\nwraps here.\n\n- one\n- two\n")
	text, err := ReadDocument(path)
	require.NoError(t, err)
	require.Equal(t, "Title\nFirst paragraph wraps here.\none\ntwo", text)
}

func TestDocxParagraphs(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>The magic flower </w:t></w:r><w:r><w:t>glows at night.</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>The castle has three towers.</w:t></w:r></w:p>
</w:body>
</w:document>`
	paragraphs, err := docxParagraphs(content)
	require.NoError(t, err)
	require.Equal(t, []string{"The magic flower glows at night.", "", "The castle has three towers."}, paragraphs)

	_, err = docxParagraphs("<w:p><w:t>broken")
	require.Error(t, err)
}

func TestReadDocumentPPTX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	slides := map[string]string{
		"ppt/slides/slide2.xml": `<p:sld><a:t>Second</a:t><a:t>slide</a:t></p:sld>`,
		"ppt/slides/slide1.xml": `<p:sld><a:t>First slide</a:t></p:sld>`,
		"ppt/presentation.xml":  `<p:presentation/>`,
	}
	for name, body := range slides {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := ReadDocument(path)
	require.NoError(t, err)
	require.Equal(t, "First slide\nSecond slide", text)
}

func TestReadDocumentXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "towers"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "castle"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "three"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	text, err := ReadDocument(path)
	require.NoError(t, err)
	require.Equal(t, "Sheet: Sheet1\nname\ttowers\ncastle\tthree", text)
}

func TestExtractTextFromXML(t *testing.T) {
	require.Equal(t, "a b", extractTextFromXML("<x><a:t>a</a:t><a:t>b</a:t></x>"))
	require.Equal(t, "", extractTextFromXML("<x/>"))
}
