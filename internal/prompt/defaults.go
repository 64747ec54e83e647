package prompt

// Default prompt texts used when a run is not driven by a research plan.
const (
	DefaultChunkPrompt = `You are a helpful assistant that summarizes video transcript content. Please provide a clear, concise summary of the key points discussed in this transcript chunk:

{chunk}

Focus on the main topics, important information, and key takeaways.`

	DefaultExecutivePrompt = `Please create a comprehensive executive summary by combining these individual section summaries into a cohesive overview:

{bullet_summaries}

Provide a clear, well-structured summary that captures the overall content and main themes.`

	DefaultCorpusChunkPrompt = `You are analyzing a collection of research summaries from multiple videos.
Identify patterns, themes, and insights from this content:

{chunk}

Focus on connections and recurring themes across the research corpus.`

	DefaultCorpusExecutivePrompt = `Create a comprehensive analysis of the research corpus by synthesizing these insights:

{bullet_summaries}

Organize findings by themes, highlight key patterns, and provide actionable insights.`
)
