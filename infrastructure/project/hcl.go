package project

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/autorelease/domain"
)

const hclFilename = "module.hcl"

var (
	hclVersionPattern = regexp.MustCompile(`(?m)^([ \t]*version[ \t]*=[ \t]*")[^"]*(")`)

	// Fallback patterns for manifests the HCL parser rejects.
	hclNameValuePattern    = regexp.MustCompile(`(?m)^[ \t]*name[ \t]*=[ \t]*"([^"]*)"`)
	hclVersionValuePattern = regexp.MustCompile(`(?m)^[ \t]*version[ \t]*=[ \t]*"([^"]*)"`)
	hclDependencyList      = regexp.MustCompile(`(?m)^[ \t]*dependencies[ \t]*=[ \t]*\[([^\]]*)\]`)
	hclQuotedString        = regexp.MustCompile(`"([^"]+)"`)
)

// HCLFormat handles "module.hcl" manifests. A manifest is a single unlabeled
// module block carrying name, version, and an optional dependencies list.
type HCLFormat struct{}

// NewHCLFormat creates the HCL manifest format.
func NewHCLFormat() *HCLFormat {
	return &HCLFormat{}
}

func (*HCLFormat) Filename() string {
	return hclFilename
}

func (*HCLFormat) Parse(data []byte) (domain.ModuleDefinition, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(data, hclFilename)
	if diags.HasErrors() {
		// Try regex-based parsing as fallback
		return parseHCLWithRegex(data), nil
	}

	content, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "module"},
		},
	})
	if diags.HasErrors() {
		return parseHCLWithRegex(data), nil
	}

	if len(content.Blocks) == 0 {
		return domain.ModuleDefinition{}, fmt.Errorf("no module block found in %s", hclFilename)
	}

	attrs, _ := content.Blocks[0].Body.JustAttributes()

	def := domain.ModuleDefinition{
		Name:    stringAttribute(attrs, "name"),
		Version: stringAttribute(attrs, "version"),
	}

	if attr, ok := attrs["dependencies"]; ok {
		val, valDiags := attr.Expr.Value(&hcl.EvalContext{})
		if !valDiags.HasErrors() && val.CanIterateElements() {
			for it := val.ElementIterator(); it.Next(); {
				_, item := it.Element()
				if item.Type() == cty.String {
					def.Dependencies = append(def.Dependencies, item.AsString())
				}
			}
		}
	}

	return def, nil
}

func (*HCLFormat) SetVersion(data []byte, version domain.Version) ([]byte, error) {
	updated, ok := replaceVersionValue(hclVersionPattern, data, version)
	if !ok {
		return nil, fmt.Errorf("no version attribute found in %s", hclFilename)
	}
	return updated, nil
}

// stringAttribute evaluates a literal string attribute, returning "" when the
// attribute is absent, non-literal, or not a string.
func stringAttribute(attrs hcl.Attributes, name string) string {
	attr, ok := attrs[name]
	if !ok {
		return ""
	}

	val, diags := attr.Expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() || val.Type() != cty.String {
		return ""
	}

	return val.AsString()
}

// parseHCLWithRegex is a fallback parser for cases where HCL parsing fails.
func parseHCLWithRegex(data []byte) domain.ModuleDefinition {
	var def domain.ModuleDefinition

	if match := hclNameValuePattern.FindSubmatch(data); len(match) > 1 {
		def.Name = string(match[1])
	}
	if match := hclVersionValuePattern.FindSubmatch(data); len(match) > 1 {
		def.Version = string(match[1])
	}

	if list := hclDependencyList.FindSubmatch(data); len(list) > 1 {
		for _, item := range hclQuotedString.FindAllSubmatch(list[1], -1) {
			def.Dependencies = append(def.Dependencies, string(item[1]))
		}
	}

	return def
}
