package epub

import (
	"encoding/xml"

	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// opfPackage mirrors the OPF 3 package document shape read by
// adammathes-epubverify/pkg/validate/opf.go, here as a writer: encode
// this with encoding/xml to produce package.opf.
type opfPackage struct {
	XMLName          xml.Name       `xml:"package"`
	Xmlns            string         `xml:"xmlns,attr"`
	Version          string         `xml:"version,attr"`
	UniqueIdentifier string         `xml:"unique-identifier,attr"`
	Metadata         opfMetadata    `xml:"metadata"`
	Manifest         opfManifest    `xml:"manifest"`
	Spine            opfSpine       `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC    string       `xml:"xmlns:dc,attr"`
	Identifier opfIdent     `xml:"dc:identifier"`
	Title      string       `xml:"dc:title"`
	Language   string       `xml:"dc:language"`
	Creator    string       `xml:"dc:creator,omitempty"`
	Modified   opfModified  `xml:"meta"`
}

type opfIdent struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfModified struct {
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	Itemrefs []opfItemref `xml:"itemref"`
}

type opfItemref struct {
	IDref string `xml:"idref,attr"`
}

// buildOPF assembles the package document for meta and items (in spine
// order), validating the invariants spec.md requires: non-empty title,
// every itemref idref present in the manifest.
func buildOPF(meta Metadata, items []Item) ([]byte, error) {
	if meta.Title == "" {
		return nil, rheoerr.NewInvalidData("epub metadata: dc:title must not be empty")
	}

	pkg := opfPackage{
		Xmlns:            "http://www.idpf.org/2007/opf",
		Version:          "3.0",
		UniqueIdentifier: "book-id",
		Metadata: opfMetadata{
			XmlnsDC:    "http://purl.org/dc/elements/1.1/",
			Identifier: opfIdent{ID: "book-id", Value: meta.Identifier},
			Title:      meta.Title,
			Language:   meta.Language,
			Creator:    meta.Creator,
			Modified:   opfModified{Property: "dcterms:modified", Value: meta.Modified},
		},
	}

	pkg.Manifest.Items = append(pkg.Manifest.Items, opfManifestItem{
		ID: "nav", Href: "nav.xhtml", MediaType: "application/xhtml+xml", Properties: "nav",
	})
	for _, it := range items {
		props := ""
		if it.Scripted {
			props = "scripted"
		}
		if it.MathML {
			if props != "" {
				props += " "
			}
			props += "mathml"
		}
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfManifestItem{
			ID: it.Stem, Href: it.Href, MediaType: "application/xhtml+xml", Properties: props,
		})
	}

	pkg.Spine.Itemrefs = append(pkg.Spine.Itemrefs, opfItemref{IDref: "nav"})
	for _, it := range items {
		pkg.Spine.Itemrefs = append(pkg.Spine.Itemrefs, opfItemref{IDref: it.Stem})
	}

	ids := make(map[string]bool, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		ids[item.ID] = true
	}
	for _, ref := range pkg.Spine.Itemrefs {
		if !ids[ref.IDref] {
			return nil, rheoerr.NewInvalidData("epub spine itemref %q has no matching manifest item", ref.IDref)
		}
	}

	out, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
