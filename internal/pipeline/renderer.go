package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jiayuchou/prdgen/internal/model"
)

// prdTemplate is the fixed document layout. Transcript-derived text enters
// execution only as data, never as template source, so braces in a
// conversation cannot change the rendering.
var prdTemplate = template.Must(template.New("prd").
	Funcs(template.FuncMap{
		"overview":     formatOverview,
		"bullets":      formatBullets,
		"requirements": formatRequirements,
	}).
	Option("missingkey=error").
	Parse(`# 产品需求文档 (PRD)

## 基本信息
- **项目名称**: {{.ProjectName}}
- **版本**: {{.Version}}
- **创建日期**: {{.CreationDate}}
- **文档状态**: 草稿

## 1. 产品概述
{{overview .Overview}}

## 2. 产品目标
{{bullets .Objectives}}

## 3. 目标用户
{{bullets .TargetUsers}}

## 4. 功能需求
{{requirements .FunctionalRequirements}}

## 5. 非功能需求
{{requirements .NonFunctionalRequirements}}

## 6. 技术需求
{{requirements .TechnicalRequirements}}

## 7. 约束条件
{{bullets .Constraints}}

## 8. 假设条件
{{bullets .Assumptions}}

## 9. 验收标准
- 所有功能需求已实现并通过测试
- 非功能需求满足既定标准
- 用户验收测试通过

## 10. 风险评估
- **技术风险**: 需要评估技术实现的可行性
- **时间风险**: 需要合理安排开发周期
- **资源风险**: 需要确保有足够的开发资源
{{- if .IncludeFooter}}

---
*此文档由AI自动生成，请人工审核并完善*
{{- end}}
`))

// documentView is what the template executes against.
type documentView struct {
	*model.Document
	IncludeFooter bool
}

// Renderer renders documents into the fixed Markdown layout and into
// indented JSON (the raw data contract for downstream tooling).
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. includeFooter controls the trailing
// AI-provenance note on Markdown output.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// MarkdownString renders the document to Markdown.
func (r *Renderer) MarkdownString(doc *model.Document) (string, error) {
	var buf strings.Builder
	view := documentView{Document: doc, IncludeFooter: r.includeFooter}
	if err := prdTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// RenderMarkdown writes the Markdown document to path.
func (r *Renderer) RenderMarkdown(doc *model.Document, path string) error {
	md, err := r.MarkdownString(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// JSONBytes renders the document as indented JSON.
func (r *Renderer) JSONBytes(doc *model.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// RenderJSON writes the document JSON to path.
func (r *Renderer) RenderJSON(doc *model.Document, path string) error {
	data, err := r.JSONBytes(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// formatOverview substitutes the fill-me-in marker for an empty overview.
func formatOverview(s string) string {
	if s == "" {
		return "待补充产品概述"
	}
	return s
}

// formatBullets renders a string list as Markdown bullets, or 暂无 when
// there is nothing to list.
func formatBullets(items []string) string {
	if len(items) == 0 {
		return "暂无"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

// formatRequirements renders requirement items as ### blocks, or 暂无.
func formatRequirements(items []model.RequirementItem) string {
	if len(items) == 0 {
		return "暂无"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s: %s\n", item.ID, item.Title)
		fmt.Fprintf(&b, "- **描述**: %s\n", item.Description)
		fmt.Fprintf(&b, "- **优先级**: %s\n", item.Priority)
		fmt.Fprintf(&b, "- **来源**: %s", item.Source)
	}
	return b.String()
}
