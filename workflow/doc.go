// Package workflow implements the research graph and the engine boundary the session driver
// talks to.
//
// The graph is a langgraphgo StateGraph over *State:
//
//	generate_report_plan -> human_feedback -> generate_report_plan (feedback)
//	                                       -> build_research_sections (approved)
//	build_research_sections -> write_final_sections -> compile_final_report -> END
//
// human_feedback pauses the run with a graph interrupt carrying the formatted plan. A Session
// resumes it either with feedback text, which sends the run back to planning, or with
// approval, which lets it write the report. Nodes report progress as Event values through the
// emit callback passed to Start, Resume and Approve.
package workflow
