package prompt

// analysisTemplate is the full instruction document.
// Arguments: account1, account2, rendered pairs, rendered sections.
const analysisTemplate = `You are an expert social psychologist analyzing Reddit users for compatibility.

**Users:** u/%s and u/%s

**Sample Post Comparisons:**
%s
**Your Task:**
Create a comprehensive, insightful compatibility report with these sections:
%s
**Tone:** Insightful, warm, honest. Focus on genuine compatibility, not forced connections.
`

// pairTemplate renders one sample. Arguments: index, account1, text1, account2, text2.
const pairTemplate = `
**Pair %d:**
• %s: %s
• %s: %s
`

// Section is one required heading of the report and what the backend should put under it.
type Section struct {
	Heading     string
	Instruction string
}

// Sections are the report headings the backend is asked to fill in, in order.
var Sections = []Section{
	{
		Heading:     "Overall Compatibility",
		Instruction: "Provide a qualitative rating (Excellent/High/Moderate/Low/Minimal) with brief justification.",
	},
	{
		Heading:     "Shared Interests & Values",
		Instruction: "Identify 3-5 key areas where they align. Be specific with examples from their posts.",
	},
	{
		Heading:     "Complementary Differences",
		Instruction: "What differences make them interesting to each other? Not conflicts, but complementary traits.",
	},
	{
		Heading:     "Communication Style Analysis",
		Instruction: "How do they express themselves? Formal vs casual? Humorous vs serious? Data-driven vs emotional?",
	},
	{
		Heading:     "Relationship Potential",
		Instruction: "What kind of connection would work best? (Friendship, mentorship, collaboration, romantic, etc.)",
	},
	{
		Heading:     "5 Conversation Starters",
		Instruction: "Specific, engaging questions that would spark great discussions between them.",
	},
}
