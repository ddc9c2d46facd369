// Package mcpserver exposes the extraction pipeline over the Model Context
// Protocol (stdio transport). It is a thin I/O shell: tools read files,
// hand bytes to the extract service, and render the resulting records.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docfield/docfield/internal/config"
	"github.com/docfield/docfield/internal/extract"
	"github.com/docfield/docfield/internal/field"
	"github.com/docfield/docfield/internal/report"
)

// Server represents the MCP server instance.
type Server struct {
	config    *config.Config
	service   *extract.Service
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance over the extraction service.
func NewServer(cfg *config.Config, service *extract.Service, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		"extract_fields_file",
		mcp.WithDescription("Extract validated structured fields (names, phones, emails, dates) from one PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	extractDirectoryTool := mcp.NewTool(
		"extract_fields_directory",
		mcp.WithDescription("Extract validated structured fields from every PDF file in a directory"),
		mcp.WithString("directory",
			mcp.Description("Directory to scan (uses the configured directory if empty)"),
		),
	)
	s.mcpServer.AddTool(extractDirectoryTool, s.handleExtractDirectory)

	serverInfoTool := mcp.NewTool(
		"extract_server_info",
		mcp.WithDescription("Get server information, available tools, and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := s.readPDF(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.service.ProcessDocument(ctx, filepath.Base(path), data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to process %s: %v", path, err)), nil
	}

	return mcp.NewToolResultText(formatRecord(rec)), nil
}

func (s *Server) handleExtractDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	uploads, err := s.collectUploads(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(uploads) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", directory)), nil
	}

	results := s.service.ProcessBatch(ctx, uploads)

	return mcp.NewToolResultText(formatResultSet(directory, results)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s %s\n\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Configured directory: %s\n", s.config.PDFDirectory)
	text += fmt.Sprintf("Default phone region: %s\n", s.config.Region)
	text += fmt.Sprintf("Two-digit year pivot: %d\n", s.config.YearPivot)
	text += fmt.Sprintf("Max file size: %d bytes\n", s.config.MaxFileSize)
	text += `
Tools:
  extract_fields_file       Extract fields from one PDF (path required)
  extract_fields_directory  Extract fields from every PDF in a directory
  extract_server_info       This information

Field types: name, phone, email, date, other.
Phones normalize to E.164, emails lower-case the domain, names to
"Given Family", dates to YYYY-MM-DD. Invalid candidates are dropped,
never reported. Unreadable PDFs produce a per-document error, and a
directory batch always reports every file in directory order.`

	return mcp.NewToolResultText(text), nil
}

// readPDF loads a PDF from disk with the configured size cap.
func (s *Server) readPDF(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if info.Size() > s.config.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), s.config.MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return data, nil
}

// collectUploads gathers every *.pdf in a directory, sorted by name so the
// batch order (and therefore result order) is deterministic.
func (s *Server) collectUploads(directory string) ([]field.Upload, error) {
	matches, err := filepath.Glob(filepath.Join(directory, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("cannot scan directory %s: %w", directory, err)
	}
	sort.Strings(matches)

	uploads := make([]field.Upload, 0, len(matches))
	for _, path := range matches {
		data, err := s.readPDF(path)
		if err != nil {
			s.logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		uploads = append(uploads, field.Upload{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}
	return uploads, nil
}

// Result formatting

func formatRecord(rec field.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", rec.DocumentID)

	if rec.Failed() {
		fmt.Fprintf(&b, "Error: %s\n", rec.Err)
		return b.String()
	}

	if rec.FieldCount() == 0 {
		b.WriteString("No validated fields found.\n")
		return b.String()
	}

	for _, t := range field.Types {
		values := rec.Values(t)
		if len(values) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", t)
		for _, v := range values {
			fmt.Fprintf(&b, "  - %s\n", v)
		}
	}
	return b.String()
}

func formatResultSet(directory string, rs field.ResultSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d PDF file(s) in %s\n\n", rs.Len(), directory)

	for _, rec := range rs.Records {
		b.WriteString(formatRecord(rec))
		b.WriteString("\n")
	}

	summary := report.Summarize(rs)
	fmt.Fprintf(&b, "Summary: %d field(s) across %d document(s), %d failed\n",
		summary.TotalFields, summary.Documents, summary.FailedDocuments)
	for _, t := range field.Types {
		if n := summary.FieldsByType[t]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", t, n)
		}
	}
	return b.String()
}

// Run starts the MCP server on the stdio transport. The parent process
// controls the lifecycle; Run returns when stdin closes.
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("starting docfield MCP server",
		"directory", s.config.PDFDirectory)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
