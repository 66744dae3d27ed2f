package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jemygraw/deepresearch/log"
	"github.com/jemygraw/deepresearch/search"
	"github.com/smallnest/langgraphgo/graph"
	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/errgroup"
)

// Node names.
const (
	NodeGeneratePlan       = "generate_report_plan"
	NodeHumanFeedback      = "human_feedback"
	NodeBuildSections      = "build_research_sections"
	NodeWriteFinalSections = "write_final_sections"
	NodeCompileReport      = "compile_final_report"
)

const (
	defaultSourceChars = 1000
	sectionWorkers     = 4
)

type researcher struct {
	planner     llms.Model
	writer      llms.Model
	searcher    search.Searcher
	logger      log.Logger
	sourceChars int
}

func (r *researcher) generatePlan(ctx context.Context, s *State) (*State, error) {
	r.logger.Info("planning report on %q", s.Topic)

	queries, err := r.queries(ctx, fmt.Sprintf(planQueryPrompt, s.Topic, reportStructure, s.Settings.NumberOfQueries))
	if err != nil {
		return nil, fmt.Errorf("generate planning queries: %w", err)
	}
	results, err := search.SearchAll(ctx, r.searcher, queries)
	if err != nil {
		return nil, err
	}
	sources := search.FormatSources(results, r.sourceChars)

	feedback := s.Feedback
	if feedback == "" {
		feedback = "None"
	}
	completion, err := llms.GenerateFromSinglePrompt(ctx, r.planner,
		fmt.Sprintf(planPrompt, s.Topic, reportStructure, sources, feedback))
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	sections, err := parsePlan(completion)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrNoPlan
	}

	s.Sections = sections
	s.Feedback = ""
	s.Approved = false
	r.logger.Debug("plan has %d sections", len(sections))
	emit(ctx, PlanEvent{Sections: append([]Section(nil), sections...)})
	return s, nil
}

func (r *researcher) humanFeedback(ctx context.Context, s *State) (*State, error) {
	msg := reviewMessage(s.Sections)
	if s.ResumeApplied {
		return nil, &graph.NodeInterrupt{Value: msg}
	}

	v, err := graph.Interrupt(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.ResumeApplied = true

	switch v := v.(type) {
	case bool:
		s.Approved = v
	case string:
		s.Feedback = strings.TrimSpace(v)
	default:
		return nil, fmt.Errorf("unsupported review value of type %T", v)
	}
	emit(ctx, UnknownEvent{Node: NodeHumanFeedback, Payload: map[string]any{
		"approved": s.Approved,
		"feedback": s.Feedback,
	}})
	return s, nil
}

func routeFeedback(ctx context.Context, s *State) string {
	if s.Approved {
		return NodeBuildSections
	}
	return NodeGeneratePlan
}

func (r *researcher) buildSections(ctx context.Context, s *State) (*State, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sectionWorkers)
	for i := range s.Sections {
		if !s.Sections[i].Research {
			continue
		}
		g.Go(func() error {
			content, err := r.researchSection(gctx, s, s.Sections[i])
			if err != nil {
				return fmt.Errorf("section %q: %w", s.Sections[i].Name, err)
			}
			s.Sections[i].Content = content
			emit(gctx, SectionEvent{Section: s.Sections[i]})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

// researchSection searches and writes one section, searching again with the grader's
// follow-up queries while the grade is "fail" and the depth allows it.
func (r *researcher) researchSection(ctx context.Context, s *State, sec Section) (string, error) {
	queries, err := r.queries(ctx, fmt.Sprintf(sectionQueryPrompt, s.Topic, sec.Description, s.Settings.NumberOfQueries))
	if err != nil {
		return "", fmt.Errorf("generate queries: %w", err)
	}

	depth := max(s.Settings.MaxSearchDepth, 1)
	var content string
	for iteration := 1; ; iteration++ {
		results, err := search.SearchAll(ctx, r.searcher, queries)
		if err != nil {
			return "", err
		}
		sources := search.FormatSources(results, r.sourceChars)

		content, err = llms.GenerateFromSinglePrompt(ctx, r.writer,
			fmt.Sprintf(sectionWriterPrompt, s.Topic, sec.Name, sec.Description, content, sources, sec.Name))
		if err != nil {
			return "", fmt.Errorf("write: %w", err)
		}
		content = strings.TrimSpace(content)

		if iteration >= depth {
			return content, nil
		}

		grade, err := llms.GenerateFromSinglePrompt(ctx, r.planner,
			fmt.Sprintf(gradePrompt, s.Topic, sec.Description, content, s.Settings.NumberOfQueries))
		if err != nil {
			return "", fmt.Errorf("grade: %w", err)
		}
		feedback, err := parseGrade(grade)
		if err != nil {
			return "", err
		}
		if feedback.Grade == "pass" || len(feedback.FollowUpQueries) == 0 {
			return content, nil
		}
		r.logger.Debug("section %q graded fail at depth %d, searching again", sec.Name, iteration)
		queries = feedback.FollowUpQueries
	}
}

func (r *researcher) writeFinalSections(ctx context.Context, s *State) (*State, error) {
	completed := completedSections(s.Sections)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sectionWorkers)
	for i := range s.Sections {
		if s.Sections[i].Research {
			continue
		}
		g.Go(func() error {
			sec := s.Sections[i]
			content, err := llms.GenerateFromSinglePrompt(gctx, r.writer,
				fmt.Sprintf(finalSectionPrompt, s.Topic, sec.Name, sec.Description, completed))
			if err != nil {
				return fmt.Errorf("section %q: write: %w", sec.Name, err)
			}
			s.Sections[i].Content = strings.TrimSpace(content)
			emit(gctx, SectionEvent{Section: s.Sections[i]})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *researcher) compileReport(ctx context.Context, s *State) (*State, error) {
	parts := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.Content != "" {
			parts = append(parts, sec.Content)
		}
	}
	s.FinalReport = strings.Join(parts, "\n\n")
	r.logger.Info("report compiled from %d sections", len(parts))
	emit(ctx, FinalReportEvent{Report: s.FinalReport})
	return s, nil
}

func (r *researcher) queries(ctx context.Context, prompt string) ([]string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, r.planner, prompt)
	if err != nil {
		return nil, err
	}
	var out struct {
		Queries []string `json:"queries"`
	}
	if err := unmarshalJSON(completion, &out); err != nil {
		return nil, fmt.Errorf("parse queries: %w", err)
	}
	if len(out.Queries) == 0 {
		return nil, fmt.Errorf("parse queries: model returned no queries")
	}
	return out.Queries, nil
}

// reviewMessage formats the plan for the review interrupt.
func reviewMessage(sections []Section) string {
	var sb strings.Builder
	sb.WriteString("Please provide feedback on the following report plan.\n\n")
	for _, sec := range sections {
		fmt.Fprintf(&sb, "Section: %s\nDescription: %s\nResearch needed: %s\n\n",
			sec.Name, sec.Description, yesNo(sec.Research))
	}
	sb.WriteString(ReviewQuestion)
	sb.WriteString("\n")
	sb.WriteString(reviewInstructions)
	return sb.String()
}

func completedSections(sections []Section) string {
	var sb strings.Builder
	for _, sec := range sections {
		if !sec.Research || sec.Content == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s\n%s\n\nSection Name: %s\nSection Description: %s\nSection Content:\n%s\n\n",
			strings.Repeat("=", 60), sec.Name, sec.Name, sec.Description, sec.Content)
	}
	return sb.String()
}

type gradeResult struct {
	Grade           string   `json:"grade"`
	FollowUpQueries []string `json:"follow_up_queries"`
}

func parseGrade(text string) (gradeResult, error) {
	var g gradeResult
	if err := unmarshalJSON(text, &g); err != nil {
		return g, fmt.Errorf("parse grade: %w", err)
	}
	g.Grade = strings.ToLower(strings.TrimSpace(g.Grade))
	if g.Grade != "pass" && g.Grade != "fail" {
		return g, fmt.Errorf("parse grade: unexpected grade %q", g.Grade)
	}
	return g, nil
}

func parsePlan(text string) ([]Section, error) {
	var out struct {
		Sections []Section `json:"sections"`
	}
	if err := unmarshalJSON(text, &out); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	sections := out.Sections[:0]
	for _, sec := range out.Sections {
		sec.Name = strings.TrimSpace(sec.Name)
		if sec.Name == "" {
			continue
		}
		sec.Content = ""
		sections = append(sections, sec)
	}
	return sections, nil
}

// unmarshalJSON decodes a model reply, tolerating Markdown code fences and prose around the
// JSON object.
func unmarshalJSON(text string, v any) error {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}
	return json.Unmarshal([]byte(text), v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
