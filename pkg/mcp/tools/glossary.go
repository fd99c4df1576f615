package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
)

// GlossaryToolDeps contains dependencies for glossary tools.
// The glossary itself is resolved per request from the context.
type GlossaryToolDeps struct {
	Logger *zap.Logger
}

// RegisterGlossaryTools registers the KPI glossary MCP tools.
func RegisterGlossaryTools(s *server.MCPServer, deps *GlossaryToolDeps) {
	registerListTeamsTool(s, deps)
	registerListMetricsTool(s, deps)
	registerGetMetricDefinitionTool(s, deps)
	registerTranslateMetricTool(s, deps)
	registerGetUnifiedDefinitionTool(s, deps)
	registerValidateReportTool(s, deps)
	registerAddMetricTool(s, deps)
	registerExportGlossaryTool(s, deps)
}

func readOnlyAnnotations() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	}
}

// registerListTeamsTool adds the list_teams tool.
func registerListTeamsTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"List every team that owns metrics in the KPI glossary, sorted alphabetically. " +
				"Use list_metrics to see a team's metrics.",
		),
	}, readOnlyAnnotations()...)
	tool := mcp.NewTool("list_teams", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}

		teams := glossary.Teams(ctx)
		return jsonResult(struct {
			Teams []string `json:"teams"`
			Count int      `json:"count"`
		}{Teams: teams, Count: len(teams)})
	})
}

// metricSummary is the list_metrics response row.
type metricSummary struct {
	Name           string           `json:"metric_name"`
	Definition     string           `json:"definition"`
	SemanticGroups []models.GroupID `json:"semantic_groups"`
}

// registerListMetricsTool adds the list_metrics tool.
func registerListMetricsTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"List a team's metrics with their definitions and semantic groups. " +
				"Unknown teams return an empty list.",
		),
		mcp.WithString("team", mcp.Required(), mcp.Description("Team name, e.g. 'Marketing'")),
	}, readOnlyAnnotations()...)
	tool := mcp.NewTool("list_metrics", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}
		team, errResult := requireTrimmed(req, "team")
		if errResult != nil {
			return errResult, nil
		}

		records := glossary.Metrics(ctx, team)
		metrics := make([]metricSummary, 0, len(records))
		for _, r := range records {
			metrics = append(metrics, metricSummary{Name: r.Name, Definition: r.Definition, SemanticGroups: r.SemanticGroups})
		}
		return jsonResult(struct {
			Team    string          `json:"team"`
			Metrics []metricSummary `json:"metrics"`
			Count   int             `json:"count"`
		}{Team: team, Metrics: metrics, Count: len(metrics)})
	})
}

// registerGetMetricDefinitionTool adds the get_metric_definition tool.
func registerGetMetricDefinitionTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Get one team's definition of a metric, including its semantic groups."),
		mcp.WithString("team", mcp.Required(), mcp.Description("Team that owns the metric")),
		mcp.WithString("metric", mcp.Required(), mcp.Description("Metric name, e.g. 'Qualified Lead'")),
	}, readOnlyAnnotations()...)
	tool := mcp.NewTool("get_metric_definition", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}
		team, errResult := requireTrimmed(req, "team")
		if errResult != nil {
			return errResult, nil
		}
		metric, errResult := requireTrimmed(req, "metric")
		if errResult != nil {
			return errResult, nil
		}

		record, err := glossary.GetMetric(ctx, team, metric)
		if err != nil {
			if IsUserError(err) {
				return userErrorResult(err), nil
			}
			return nil, fmt.Errorf("failed to get metric: %w", err)
		}
		return jsonResult(record)
	})
}

// registerTranslateMetricTool adds the translate_metric tool.
func registerTranslateMetricTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Explain how one team's metric relates to another team's metrics. " +
				"Returns a plain-language translation, the unified definition shared by both teams, " +
				"a misalignment warning and a definition overlap score between 0 and 1.",
		),
		mcp.WithString("source_team", mcp.Required(), mcp.Description("Team that owns the metric")),
		mcp.WithString("metric", mcp.Required(), mcp.Description("Metric to translate")),
		mcp.WithString("target_team", mcp.Required(), mcp.Description("Team the metric is explained to")),
	}, readOnlyAnnotations()...)
	tool := mcp.NewTool("translate_metric", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}
		sourceTeam, errResult := requireTrimmed(req, "source_team")
		if errResult != nil {
			return errResult, nil
		}
		metric, errResult := requireTrimmed(req, "metric")
		if errResult != nil {
			return errResult, nil
		}
		targetTeam, errResult := requireTrimmed(req, "target_team")
		if errResult != nil {
			return errResult, nil
		}

		return jsonResult(glossary.Translate(ctx, sourceTeam, metric, targetTeam))
	})
}

// registerGetUnifiedDefinitionTool adds the get_unified_definition tool.
func registerGetUnifiedDefinitionTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Get the team-neutral unified definition covering a metric and another team. " +
				"Omit other_team to list every unified definition in the glossary.",
		),
		mcp.WithString("team", mcp.Description("Team that owns the metric")),
		mcp.WithString("metric", mcp.Description("Metric name")),
		mcp.WithString("other_team", mcp.Description("Team the definition must also cover")),
	}, readOnlyAnnotations()...)
	tool := mcp.NewTool("get_unified_definition", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}

		team := trimString(getOptionalString(req, "team"))
		metric := trimString(getOptionalString(req, "metric"))
		otherTeam := trimString(getOptionalString(req, "other_team"))

		if team == "" && metric == "" && otherTeam == "" {
			defs := glossary.UnifiedDefinitions(ctx)
			return jsonResult(struct {
				UnifiedDefinitions []models.UnifiedDefinition `json:"unified_definitions"`
				Count              int                        `json:"count"`
			}{UnifiedDefinitions: defs, Count: len(defs)})
		}
		if team == "" || metric == "" || otherTeam == "" {
			return NewErrorResult("invalid_parameters", "team, metric and other_team must be provided together"), nil
		}

		return jsonResult(struct {
			Team              string `json:"team"`
			Metric            string `json:"metric"`
			OtherTeam         string `json:"other_team"`
			UnifiedDefinition string `json:"unified_definition"`
		}{
			Team:              team,
			Metric:            metric,
			OtherTeam:         otherTeam,
			UnifiedDefinition: glossary.UnifiedDefinitionFor(ctx, team, metric, otherTeam),
		})
	})
}

// registerValidateReportTool adds the validate_report tool.
func registerValidateReportTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Scan report text for KPI misalignment: mixed team terminology, ambiguous 'success' claims, " +
				"incompatible time windows and cross-team metric mentions without context.",
		),
		mcp.WithString("text", mcp.Required(), mcp.Description("Report text to validate")),
	}, readOnlyAnnotations()...)
	tool := mcp.NewTool("validate_report", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}
		text, err := req.RequireString("text")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		report, err := glossary.ValidateReport(ctx, text)
		if err != nil {
			if IsUserError(err) {
				return userErrorResult(err), nil
			}
			return nil, fmt.Errorf("failed to validate report: %w", err)
		}
		return jsonResult(report)
	})
}

// registerAddMetricTool adds the add_metric tool.
func registerAddMetricTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	tool := mcp.NewTool(
		"add_metric",
		mcp.WithDescription(
			"Add or overwrite a team's metric definition. "+
				"Semantic groups, unified definitions and translations are recomputed immediately.",
		),
		mcp.WithString("team", mcp.Required(), mcp.Description("Team that owns the metric")),
		mcp.WithString("metric_name", mcp.Required(), mcp.Description("Metric name")),
		mcp.WithString("definition", mcp.Required(), mcp.Description("How the team measures the metric")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}

		team := getOptionalString(req, "team")
		name := getOptionalString(req, "metric_name")
		definition := getOptionalString(req, "definition")

		record, err := glossary.AddMetric(ctx, team, name, definition)
		if err != nil {
			if IsUserError(err) {
				return userErrorResult(err), nil
			}
			return nil, fmt.Errorf("failed to add metric: %w", err)
		}

		deps.Logger.Info("Metric added via MCP",
			zap.String("team", record.Team),
			zap.String("metric", record.Name))

		return jsonResult(record)
	})
}

// registerExportGlossaryTool adds the export_glossary tool.
func registerExportGlossaryTool(s *server.MCPServer, deps *GlossaryToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Export the whole glossary: metrics by team, unified definitions and the translation matrix.",
		),
	}, readOnlyAnnotations()...)
	tool := mcp.NewTool("export_glossary", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		glossary, err := requireGlossary(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResult(glossary.Export(ctx))
	})
}
