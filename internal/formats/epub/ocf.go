package epub

import (
	"archive/zip"
	"bytes"
	"io"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="EPUB/package.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

// assembleOCF writes the OCF zip layout spec.md §4.F requires: mimetype
// stored uncompressed as the first entry, then META-INF/container.xml,
// EPUB/package.opf, EPUB/nav.xhtml, and one EPUB/<href> per item. Modeled
// on adammathes-epubverify/pkg/epub's reading side (archive/zip, the same
// path layout), here as the writer.
func assembleOCF(opf, nav []byte, items []Item) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	mimeWriter, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(mimeWriter, "application/epub+zip"); err != nil {
		return nil, err
	}

	if err := writeZipFile(zw, "META-INF/container.xml", []byte(containerXML)); err != nil {
		return nil, err
	}
	if err := writeZipFile(zw, "EPUB/package.opf", opf); err != nil {
		return nil, err
	}
	if err := writeZipFile(zw, "EPUB/nav.xhtml", nav); err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := writeZipFile(zw, "EPUB/"+it.Href, []byte(it.XHTML)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeZipFile(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}
