// Deep Research - Interactive Research Reports in Go
//
// deepresearch is a console tool that turns a topic into a researched Markdown report. A
// planner model drafts the report's sections from a first round of web searches, the user
// reviews the plan and sends feedback until it fits, and then every section that needs
// research is searched, written and graded before the final report is assembled.
//
// # Quick Start
//
// Install the command:
//
//	go install github.com/jemygraw/deepresearch/cmd/deepresearch@latest
//
// Put your keys in .env (a copy of .env.example is created on first run):
//
//	OPENAI_API_KEY=sk-...
//	TAVILY_API_KEY=tvly-...
//	LANGCHAIN_API_KEY=lsv2-...
//
// Then start a session:
//
//	deepresearch --report-dir reports
//
// Answers to the topic and feedback prompts may pull in files. An answer of exactly
// "file:notes/brief.md" is replaced by that file, and "Compare {{file:a.md}} with
// {{file:b.md}}" has each reference expanded in place.
//
// # Core Concepts
//
// # Research Graph
//
// The workflow is a langgraphgo state graph over a workflow.State:
//
//	generate_report_plan -> human_feedback -> build_research_sections
//	        ^                     |                    |
//	        +----- feedback ------+          write_final_sections
//	                                                   |
//	                                          compile_final_report
//
// human_feedback pauses the graph with an interrupt carrying the plan for review. A
// workflow.Session resumes it with feedback or with approval.
//
// # Events
//
// Progress is reported as tagged events (plan, interrupt, section, final report and a raw
// fallback) that render.Printer turns into console output.
//
// # Package Structure
//
// # Core Packages
//
// ### input/
// Console reader with the file directive, {{file:...}} expansion and path resolution
// against base and fallback directories.
//
// ### workflow/
// The research graph, its nodes and prompts, and the Session that drives it.
//
// ### research/
// The interactive session: prompts, yes/no loops, error reporting and report saving.
//
// ### render/ and report/
// Event display with lipgloss and glamour, and Markdown or HTML report files.
//
// ### search/
// Tavily and Brave search clients and page fetching for richer sources.
//
// # Storage Packages
//
// Snapshots of a thread after every round-trip can be kept for later inspection with
// "deepresearch history <thread-id>":
//
//   - store/memory: In-process storage
//   - store/sqlite: SQLite file storage
//   - store/redis: Redis storage with optional TTL
//   - store/postgres: PostgreSQL storage
//
// # Configuration
//
// Settings come from the environment and .env, and command-line flags override them:
//
//   - SEARCH_API: tavily or brave
//   - PLANNER_PROVIDER, PLANNER_MODEL, WRITER_PROVIDER, WRITER_MODEL: openai or anthropic models
//   - MAX_SEARCH_DEPTH, NUMBER_OF_QUERIES: research effort per section
//   - HISTORY_BACKEND, HISTORY_DSN: snapshot storage
//   - LOG_LEVEL: diagnostics on stderr (debug, info, warn, error, none)
package deepresearch // import "github.com/jemygraw/deepresearch"
