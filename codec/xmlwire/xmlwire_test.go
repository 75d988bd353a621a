package xmlwire_test

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	wd "github.com/reoring/withdefaults"
	"github.com/reoring/withdefaults/codec/xmlwire"
)

func sampleReply() *wd.Reply {
	return &wd.Reply{
		Mode: wd.ModeReportAllTagged,
		Data: &wd.ReplyNode{Kind: wd.KindContainer, Children: []*wd.ReplyNode{
			{Name: "top", Module: "a", Namespace: "urn:a", Kind: wd.KindContainer, Children: []*wd.ReplyNode{
				{Name: "name", Module: "a", Namespace: "urn:a", Kind: wd.KindLeaf, Type: wd.TypeString, Value: "x<y&z", Default: true},
				{Name: "flag", Module: "a", Namespace: "urn:a", Kind: wd.KindLeaf, Type: wd.TypeEmpty},
				{Name: "aug", Module: "b", Namespace: "urn:b", Kind: wd.KindContainer},
				{Name: "tag", Module: "a", Namespace: "urn:a", Kind: wd.KindLeafList, Type: wd.TypeString, Value: "t1"},
				{Name: "tag", Module: "a", Namespace: "urn:a", Kind: wd.KindLeafList, Type: wd.TypeString, Value: "t2"},
			}},
		}},
	}
}

func TestMarshal_Indented(t *testing.T) {
	got, err := xmlwire.Marshal(sampleReply())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `<data xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">
  <top xmlns="urn:a">
    <name xmlns:ncwd="urn:ietf:params:xml:ns:yang:ietf-netconf-with-defaults" ncwd:default="true">x&lt;y&amp;z</name>
    <flag/>
    <aug xmlns="urn:b"/>
    <tag>t1</tag>
    <tag>t2</tag>
  </top>
</data>
`
	if string(got) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerialize_CompactIsWellFormed(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (xmlwire.Serializer{}).Serialize(buf, sampleReply()); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if strings.Contains(buf.String(), "\n") {
		t.Fatalf("compact output contains newlines: %s", buf)
	}

	type leaf struct {
		XMLName xml.Name
		Default string `xml:"urn:ietf:params:xml:ns:yang:ietf-netconf-with-defaults default,attr"`
		Text    string `xml:",chardata"`
	}
	var doc struct {
		XMLName xml.Name `xml:"urn:ietf:params:xml:ns:netconf:base:1.0 data"`
		Top     struct {
			Name leaf   `xml:"urn:a name"`
			Tags []leaf `xml:"urn:a tag"`
			Aug  *struct {
				XMLName xml.Name
			} `xml:"urn:b aug"`
		} `xml:"urn:a top"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not well-formed: %v\n%s", err, buf)
	}
	if doc.Top.Name.Text != "x<y&z" || doc.Top.Name.Default != "true" {
		t.Fatalf("name = %+v", doc.Top.Name)
	}
	if len(doc.Top.Tags) != 2 || doc.Top.Tags[1].Default != "" {
		t.Fatalf("tags = %+v", doc.Top.Tags)
	}
	if doc.Top.Aug == nil {
		t.Fatalf("augmented container lost its namespace")
	}
}

func TestSerialize_Registered(t *testing.T) {
	buf := &bytes.Buffer{}
	empty := &wd.Reply{Mode: wd.ModeTrim, Data: &wd.ReplyNode{Kind: wd.KindContainer}}
	if err := wd.Serialize(buf, "xml", empty); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got := buf.String(); got != "<data xmlns=\""+xmlwire.BaseNamespace+"\"/>\n" {
		t.Fatalf("empty reply = %q", got)
	}
}
