// Package mcpserver exposes generation to agents over the Model Context
// Protocol. Documents are passed inline as tool arguments; nothing is read
// from or written to disk.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/generate"
	"github.com/teranos/shapegen/logger"
	"github.com/teranos/shapegen/source"
)

// ServerName is advertised to MCP clients.
const ServerName = "shapegen"

// MCPServer serves the generate_types and describe_schema tools.
type MCPServer struct {
	server   *server.MCPServer
	defaults generate.Options
	log      *zap.SugaredLogger
}

// New creates an MCP server. defaults supplies the options a tool call does
// not override (typically the loaded configuration).
func New(defaults generate.Options, version string) *MCPServer {
	s := &MCPServer{
		defaults: defaults,
		log:      logger.ComponentLogger("mcp"),
	}

	s.server = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// registerTools registers all MCP tools
func (s *MCPServer) registerTools() {
	generateTool := mcp.NewTool("generate_types",
		mcp.WithDescription("Infer record types from an example document and emit source code with defaults, normalization and serialization"),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Example document text (JSON, YAML or TOML); the root must be an object"),
		),
		mcp.WithString("language",
			mcp.Description("Target language: "+strings.Join(generate.Languages(), ", ")),
		),
		mcp.WithString("format",
			mcp.Description("Input format: auto, json, yaml or toml (default: detected from source_name, else json)"),
		),
		mcp.WithString("root_name",
			mcp.Description("Name of the root record (default: derived from source_name)"),
		),
		mcp.WithString("source_name",
			mcp.Description("File name the document came from, e.g. default.json"),
		),
	)
	s.server.AddTool(generateTool, s.handleGenerate)

	describeTool := mcp.NewTool("describe_schema",
		mcp.WithDescription("Infer record types from an example document and list each record's fields, types and defaults as JSON"),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Example document text (JSON, YAML or TOML); the root must be an object"),
		),
		mcp.WithString("format",
			mcp.Description("Input format: auto, json, yaml or toml"),
		),
		mcp.WithString("root_name",
			mcp.Description("Name of the root record"),
		),
		mcp.WithString("source_name",
			mcp.Description("File name the document came from, e.g. default.json"),
		),
	)
	s.server.AddTool(describeTool, s.handleDescribe)
}

// request is the shared argument set of both tools.
type request struct {
	src  *source.Source
	opts generate.Options
}

func (s *MCPServer) parseRequest(req mcp.CallToolRequest) (*request, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return nil, err
	}

	opts := s.defaults
	if lang := req.GetString("language", ""); lang != "" {
		opts.Language = lang
	}
	if name := req.GetString("root_name", ""); name != "" {
		opts.RootName = name
	}
	if f := req.GetString("format", ""); f != "" {
		format, err := document.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		opts.Format = format
	}

	name := req.GetString("source_name", "")
	src, err := source.Read(strings.NewReader(doc), name, opts.Format)
	if err != nil {
		return nil, err
	}
	return &request{src: src, opts: opts}, nil
}

// handleGenerate handles generate_types tool calls
func (s *MCPServer) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := s.parseRequest(req)
	if err != nil {
		return toolError(err), nil
	}

	res, err := generate.FromSource(r.src, r.opts)
	if err != nil {
		s.log.Debugw("generate_types failed", logger.FieldError, err)
		return toolError(err), nil
	}

	s.log.Infow("Types generated",
		logger.FieldLanguage, res.Language,
		logger.FieldRecord, res.Schema.Root.Name,
		logger.FieldCount, len(res.Schema.All()))
	return mcp.NewToolResultText(res.Content), nil
}

// handleDescribe handles describe_schema tool calls
func (s *MCPServer) handleDescribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := s.parseRequest(req)
	if err != nil {
		return toolError(err), nil
	}

	v, err := r.src.Parse(r.opts.MaxDepth)
	if err != nil {
		return toolError(err), nil
	}
	sch, err := generate.Infer(v, r.src.Name, r.opts)
	if err != nil {
		return toolError(err), nil
	}

	out, err := json.MarshalIndent(generate.Describe(sch), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode schema description")
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError reports err to the client, including any hints.
func toolError(err error) *mcp.CallToolResult {
	msg := err.Error()
	if hints := errors.FlattenHints(err); hints != "" {
		msg += "\nhint: " + hints
	}
	return mcp.NewToolResultError(msg)
}

// Serve starts the MCP server using stdio transport
func (s *MCPServer) Serve() error {
	return server.ServeStdio(s.server)
}
