package check

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iptc-tools/pmdchecker/internal/guide"
	"github.com/iptc-tools/pmdchecker/internal/pmd"
)

// collector gathers findings in traversal order.
type collector struct {
	findings []Finding
}

func (c *collector) Emit(f Finding) error {
	c.findings = append(c.findings, f)
	return nil
}

func (c *collector) paths() []string {
	var out []string
	for _, f := range c.findings {
		out = append(out, f.Path.String())
	}
	return out
}

// rowCollector gathers inventory rows in emission order.
type rowCollector struct {
	rows []Row
}

func (c *rowCollector) EmitRow(r Row) error {
	c.rows = append(c.rows, r)
	return nil
}

const checkGuideYAML = `
topwithprefix:
  IPTC_ObjectName:
    label: Title
  IPTC_Keywords:
    label: Keywords
  XMP-dc_Description:
    label: Description
  XMP-iptcExt_LocationCreated:
    label: Location Created
  XMP-iptcExt_PersonInImageWDetails:
    label: Person Shown with Details
instructure:
  City:
    label: City
  CountryName:
    label: Country Name|Country
  PersonName:
    label: Name
  PersonId:
    label: Identifier
`

const techGuideYAML = `
et_topwithprefix:
  IPTC_ObjectName:
    label: Title
  XMP-photoshop_DateCreated:
    label: Date Created
  XMP-dc_Creator:
    label: Creator
et_instructure:
  PersonName:
    label: Name
ipmd_top:
  creatorNames:
    label: Creator
    sortorder: s02
    ugtopic: admin
    datatype: string
    etIIM: IPTC:By-line
    etXMP: XMP-dc:Creator
  dateCreated:
    label: Date Created
    sortorder: s05
    ugtopic: admin
    datatype: string
    dataformat: date-time
    etIIM: IPTC:DateCreated+IPTC:TimeCreated
    etXMP: XMP-photoshop:DateCreated
  personInImage:
    label: Person Shown in the Image
    sortorder: s10
    ugtopic: person
    datatype: struct
    dataformat: PersonDetails
    etXMP: XMP-iptcExt:PersonInImageWDetails
  captionWriter:
    label: Caption Writer
    sortorder: s20
    ugtopic: admin
    datatype: string
    etIIM: IPTC:Writer-Editor
    etXMP: XMP-photoshop:CaptionWriter
  altLangTitle:
    label: Alternative Title
    sortorder: s30
    ugtopic: admin
    datatype: struct
    dataformat: AltLang
    etXMP: XMP-dc:AltTitle
  orphanStruct:
    label: Orphan Structure
    sortorder: s40
    ugtopic: other
    datatype: struct
    dataformat: NoSuchStruct
    etXMP: XMP-iptcExt:Orphan
ipmd_struct:
  PersonDetails:
    personName:
      label: Name
      sortorder: s01
      datatype: string
      etTag: PersonName
    personCharacteristic:
      label: Characteristic
      sortorder: s02
      datatype: struct
      dataformat: CvTerm
      etTag: PersonCharacteristic
  CvTerm:
    cvTermId:
      label: Term ID
      sortorder: s01
      datatype: string
      etTag: CvTermId
`

func loadGuide(t *testing.T, content string) *guide.Guide {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guide.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write guide fixture: %v", err)
	}
	g, err := guide.Load(path)
	if err != nil {
		t.Fatalf("Failed to load guide fixture: %v", err)
	}
	return g
}

func loadTree(t *testing.T, doc string) *pmd.Object {
	t.Helper()
	obj, err := pmd.LoadDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Failed to parse tree fixture: %v", err)
	}
	return obj
}
