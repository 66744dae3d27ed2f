package workflow

// ReviewQuestion follows the formatted plan in the review interrupt. Renderers split on it.
const ReviewQuestion = "Does the report plan meet your needs?"

const reviewInstructions = `Pass 'true' to approve the report plan.
Or, provide feedback to regenerate the report plan:`

const reportStructure = `Use this structure to create a report on the user-provided topic:

1. Introduction (no research needed)
   - Brief overview of the topic area

2. Main Body Sections:
   - Each section should focus on a sub-topic of the user-provided topic

3. Conclusion
   - Aim for 1 structural element (either a list or table) that distills the main body sections
   - Provide a concise summary of the report`

const planQueryPrompt = `You are performing research for a report.

<Report topic>
%s
</Report topic>

<Report organization>
%s
</Report organization>

Generate %d search queries that will help with planning the sections of the report.
The queries should be related to the report topic and help satisfy the requirements of the
report organization. Make them specific enough to find high-quality, relevant sources.

Respond with JSON only, in the form {"queries": ["...", "..."]}.`

const planPrompt = `I want a plan for a report that is concise and focused.

<Report topic>
%s
</Report topic>

<Report organization>
%s
</Report organization>

<Context>
Here is context to use to plan the sections of the report:
%s
</Context>

<Feedback>
Here is feedback on the report structure from review (if any):
%s
</Feedback>

Generate a list of sections for the report. Each section has:
- name: name for this section of the report
- description: brief overview of the main topics covered in this section
- research: whether to perform web research for this section of the report

Introduction and conclusion do not need research. Avoid overlapping sections.

Respond with JSON only, in the form
{"sections": [{"name": "...", "description": "...", "research": true}]}.`

const sectionQueryPrompt = `You are an expert technical writer crafting targeted web search queries that will
gather comprehensive information for writing a technical report section.

<Report topic>
%s
</Report topic>

<Section topic>
%s
</Section topic>

Generate %d search queries that cover the section topic from different angles.

Respond with JSON only, in the form {"queries": ["...", "..."]}.`

const sectionWriterPrompt = `Write one section of a research report.

<Report topic>
%s
</Report topic>

<Section name>
%s
</Section name>

<Section topic>
%s
</Section topic>

<Existing section content (if populated)>
%s
</Existing section content>

<Source material>
%s
</Source material>

Guidelines:
- 150-200 words, plain and technical
- Start with the single most important insight in bold
- Use "## %s" as the section title
- End with "### Sources" listing each source as "- Title : URL"
- Do not invent facts that are not in the source material`

const gradePrompt = `Review a report section relative to the specified topic.

<Report topic>
%s
</Report topic>

<Section topic>
%s
</Section topic>

<Section content>
%s
</Section content>

Evaluate whether the section content adequately addresses the section topic. If it does not,
generate %d follow-up search queries to gather the missing information.

Respond with JSON only, in the form
{"grade": "pass" or "fail", "follow_up_queries": ["...", "..."]}.`

const finalSectionPrompt = `You are an expert technical writer crafting a section that synthesizes
information from the rest of the report.

<Report topic>
%s
</Report topic>

<Section name>
%s
</Section name>

<Section topic>
%s
</Section topic>

<Available report content>
%s
</Available report content>

For an introduction: use "# Title" for the report title, 50-100 words, no structural elements
and no sources section.
For a conclusion: use "## Conclusion", 100-150 words, at most one table or list that
distills the report, and no sources section.
Otherwise follow the section topic. Write in Markdown.`
