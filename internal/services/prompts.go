package services

// LLM Prompt Constants for consistent and optimized AI interactions

const (
	// LOG_GROUPING_PROMPT asks the model to cluster error log lines by root
	// cause. The response must be a bare JSON array; everything around the
	// array is tolerated and stripped by the parser.
	LOG_GROUPING_PROMPT = `You are an expert Site Reliability Engineer (SRE) grouping application error logs by root cause.

CRITICAL INSTRUCTIONS:
- Return ONLY a valid JSON array in the exact format specified below
- Do not include any explanatory text, introductions, or markdown formatting
- Every group must reference logs by their zero-based index from the list below
- Give each group a short, human-readable root-cause title

ERROR LOGS TO GROUP:
%s

REQUIRED JSON FORMAT:
[
  {
    "groupTitle": "Short root-cause label (e.g. 'Database Connection Timeout')",
    "logIndices": [0, 3, 7]
  }
]

Return ONLY the JSON array, nothing else.`

	// CLUSTER_SUMMARY_PROMPT asks the model for a short narrative over the
	// top clusters of one pipeline run.
	CLUSTER_SUMMARY_PROMPT = `You are an expert SRE writing a status digest for an operations dashboard.

CRITICAL INSTRUCTIONS:
- Respond with exactly 2 sentences of plain text
- No markdown, no lists, no preamble
- Mention the dominant error pattern and overall system impact

SOURCE: %s
TOP ERROR CLUSTERS:
%s

Summary:`

	// HEALTH_CHECK_PROMPT is used for LLM service health verification
	HEALTH_CHECK_PROMPT = `You are a health check service. Respond with "OK" if you are functioning properly.`
)
