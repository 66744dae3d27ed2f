package workflow

import (
	"errors"

	"github.com/jemygraw/deepresearch/log"
	"github.com/jemygraw/deepresearch/search"
	"github.com/smallnest/langgraphgo/graph"
	"github.com/tmc/langchaingo/llms"
)

// Deps are the collaborators the research nodes call.
type Deps struct {
	Planner  llms.Model
	Writer   llms.Model
	Searcher search.Searcher
	Logger   log.Logger
	// SourceChars limits the raw content of each search source handed to a model.
	SourceChars int
}

// NewGraph compiles the research graph.
func NewGraph(deps Deps) (*graph.StateRunnable[*State], error) {
	if deps.Planner == nil || deps.Writer == nil {
		return nil, errors.New("workflow: planner and writer models are required")
	}
	if deps.Searcher == nil {
		return nil, errors.New("workflow: searcher is required")
	}
	r := &researcher{
		planner:     deps.Planner,
		writer:      deps.Writer,
		searcher:    deps.Searcher,
		logger:      log.OrDefault(deps.Logger),
		sourceChars: deps.SourceChars,
	}
	if r.sourceChars <= 0 {
		r.sourceChars = defaultSourceChars
	}

	g := graph.NewStateGraph[*State]()

	g.AddNode(NodeGeneratePlan, "Generate the report plan", r.generatePlan)
	g.AddNode(NodeHumanFeedback, "Review the report plan", r.humanFeedback)
	g.AddNode(NodeBuildSections, "Research and write sections", r.buildSections)
	g.AddNode(NodeWriteFinalSections, "Write sections that need no research", r.writeFinalSections)
	g.AddNode(NodeCompileReport, "Compile the final report", r.compileReport)

	g.SetEntryPoint(NodeGeneratePlan)
	g.AddEdge(NodeGeneratePlan, NodeHumanFeedback)
	g.AddConditionalEdge(NodeHumanFeedback, routeFeedback)
	g.AddEdge(NodeBuildSections, NodeWriteFinalSections)
	g.AddEdge(NodeWriteFinalSections, NodeCompileReport)
	g.AddEdge(NodeCompileReport, graph.END)

	return g.Compile()
}
