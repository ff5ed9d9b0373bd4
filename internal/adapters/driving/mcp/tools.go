package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// Tool names.
const (
	ToolAsk               = "tanya_pencairan_lpdp"
	ToolFundComponent     = "cari_komponen_dana"
	ToolDeadline          = "cek_batas_waktu"
	ToolMonthlyAllowance  = "info_dana_bulanan"
	ToolRequiredDocuments = "cari_dokumen_persyaratan"
)

// maxRenderedSources caps the source lines in a text reply.
const maxRenderedSources = 3

var toolNames = map[string]struct{}{
	ToolAsk:               {},
	ToolFundComponent:     {},
	ToolDeadline:          {},
	ToolMonthlyAllowance:  {},
	ToolRequiredDocuments: {},
}

// AskInput is the input schema for tanya_pencairan_lpdp.
type AskInput struct {
	Question string `json:"pertanyaan" jsonschema:"Pertanyaan tentang pencairan beasiswa LPDP"`
}

// AskOutput is the structured result of tanya_pencairan_lpdp.
type AskOutput struct {
	Answer  string          `json:"jawaban"`
	Sources []domain.Source `json:"sumber"`
}

// FundComponentInput is the input schema for cari_komponen_dana.
type FundComponentInput struct {
	Component string `json:"komponen" jsonschema:"Nama komponen dana (misal: 'dana penelitian', 'SPP')"`
}

// FundComponentOutput is the structured result of cari_komponen_dana.
type FundComponentOutput struct {
	Component   string          `json:"komponen"`
	Information string          `json:"informasi"`
	Sources     []domain.Source `json:"sumber"`
}

// DeadlineInput is the input schema for cek_batas_waktu.
type DeadlineInput struct {
	FundType string `json:"jenis_dana" jsonschema:"Jenis dana yang ingin dicek batas waktunya"`
}

// DeadlineOutput is the structured result of cek_batas_waktu.
type DeadlineOutput struct {
	FundType string          `json:"jenis_dana"`
	Deadline string          `json:"batas_waktu"`
	Sources  []domain.Source `json:"sumber"`
}

// MonthlyAllowanceInput is the input schema for info_dana_bulanan.
type MonthlyAllowanceInput struct {
	Location string `json:"lokasi" jsonschema:"Nama negara atau kota tujuan studi"`
}

// MonthlyAllowanceOutput is the structured result of info_dana_bulanan.
type MonthlyAllowanceOutput struct {
	Location  string          `json:"lokasi"`
	Allowance string          `json:"informasi_dana_bulanan"`
	Sources   []domain.Source `json:"sumber"`
}

// RequiredDocumentsInput is the input schema for cari_dokumen_persyaratan.
type RequiredDocumentsInput struct {
	SubmissionType string `json:"jenis_pengajuan" jsonschema:"Jenis pengajuan yang ingin diketahui persyaratannya"`
}

// RequiredDocumentsOutput is the structured result of cari_dokumen_persyaratan.
type RequiredDocumentsOutput struct {
	SubmissionType string          `json:"jenis_pengajuan"`
	Documents      string          `json:"dokumen_persyaratan"`
	Sources        []domain.Source `json:"sumber"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: ToolAsk,
		Description: "Menjawab pertanyaan umum tentang pencairan beasiswa LPDP. " +
			"Gunakan tool ini untuk pertanyaan umum seputar pencairan dana beasiswa LPDP, " +
			"termasuk prosedur, syarat, dan ketentuan pencairan.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: ToolFundComponent,
		Description: "Mencari informasi tentang komponen dana tertentu dalam beasiswa LPDP. " +
			"Komponen dana meliputi: Dana SPP, Dana Penelitian, Dana Seminar, Dana Publikasi, " +
			"Dana Transportasi, Dana Asuransi, Dana Kedatangan, dll.",
	}, s.handleFundComponent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: ToolDeadline,
		Description: "Mengecek batas waktu pengajuan dana beasiswa LPDP. " +
			"Dapat mengecek deadline untuk berbagai jenis dana seperti transportasi, " +
			"penelitian, seminar, publikasi, visa, asuransi, dll.",
	}, s.handleDeadline)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: ToolMonthlyAllowance,
		Description: "Informasi living allowance (dana hidup bulanan) berdasarkan negara atau kota. " +
			"Dapat memasukkan nama negara (Jepang, Australia, Inggris) atau " +
			"nama kota (Tokyo, London, Sydney).",
	}, s.handleMonthlyAllowance)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: ToolRequiredDocuments,
		Description: "Mencari dokumen yang dibutuhkan untuk pengajuan dana LPDP. " +
			"Dapat mencari persyaratan untuk pengajuan visa, transportasi, " +
			"dana penelitian, seminar internasional, dll.",
	}, s.handleRequiredDocuments)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Tools.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	text := Render("", answer, true)
	return textResult(text), AskOutput{Answer: answer.Text, Sources: sources(answer)}, nil
}

func (s *Server) handleFundComponent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FundComponentInput,
) (*mcp.CallToolResult, FundComponentOutput, error) {
	answer, err := s.ports.Tools.FundComponent(ctx, input.Component)
	if err != nil {
		return nil, FundComponentOutput{}, err
	}
	text := Render("📋 Informasi "+titleCase(answer.Subject), answer, true)
	return textResult(text), FundComponentOutput{
		Component:   answer.Subject,
		Information: answer.Text,
		Sources:     sources(answer),
	}, nil
}

func (s *Server) handleDeadline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeadlineInput,
) (*mcp.CallToolResult, DeadlineOutput, error) {
	answer, err := s.ports.Tools.Deadline(ctx, input.FundType)
	if err != nil {
		return nil, DeadlineOutput{}, err
	}
	text := Render("⏰ Batas Waktu Pengajuan "+titleCase(answer.Subject), answer, false)
	return textResult(text), DeadlineOutput{
		FundType: answer.Subject,
		Deadline: answer.Text,
		Sources:  sources(answer),
	}, nil
}

func (s *Server) handleMonthlyAllowance(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MonthlyAllowanceInput,
) (*mcp.CallToolResult, MonthlyAllowanceOutput, error) {
	answer, err := s.ports.Tools.MonthlyAllowance(ctx, input.Location)
	if err != nil {
		return nil, MonthlyAllowanceOutput{}, err
	}
	text := Render("💰 Dana Hidup Bulanan di "+titleCase(answer.Subject), answer, false)
	return textResult(text), MonthlyAllowanceOutput{
		Location:  answer.Subject,
		Allowance: answer.Text,
		Sources:   sources(answer),
	}, nil
}

func (s *Server) handleRequiredDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RequiredDocumentsInput,
) (*mcp.CallToolResult, RequiredDocumentsOutput, error) {
	answer, err := s.ports.Tools.RequiredDocuments(ctx, input.SubmissionType)
	if err != nil {
		return nil, RequiredDocumentsOutput{}, err
	}
	text := Render("📄 Dokumen Persyaratan untuk "+titleCase(answer.Subject), answer, false)
	return textResult(text), RequiredDocumentsOutput{
		SubmissionType: answer.Subject,
		Documents:      answer.Text,
		Sources:        sources(answer),
	}, nil
}

// Render formats a tool answer as chat text: an optional title line, the
// answer and up to three source pages. Sections are appended only when
// withSections is set.
func Render(title string, answer domain.ToolAnswer, withSections bool) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString(answer.Text)

	if len(answer.Sources) > 0 {
		b.WriteString("\n\n📚 Sumber:")
		for i, src := range answer.Sources {
			if i == maxRenderedSources {
				break
			}
			fmt.Fprintf(&b, "\n- Halaman %d", src.Page)
			if withSections && src.Section != "" {
				fmt.Fprintf(&b, " (%s)", src.Section)
			}
		}
	}
	return b.String()
}

// sources never returns nil so the structured output always carries a list.
func sources(answer domain.ToolAnswer) []domain.Source {
	if answer.Sources == nil {
		return []domain.Source{}
	}
	return answer.Sources
}

func titleCase(s string) string {
	return cases.Title(language.Indonesian).String(s)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// unknownToolMiddleware answers calls to unregistered tools with a text
// result instead of a protocol error.
func unknownToolMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if method == "tools/call" {
			if call, ok := req.(*mcp.CallToolRequest); ok && call.Params != nil {
				if _, known := toolNames[call.Params.Name]; !known {
					return textResult(fmt.Sprintf("Tool '%s' tidak ditemukan", call.Params.Name)), nil
				}
			}
		}
		return next(ctx, method, req)
	}
}
