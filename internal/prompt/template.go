package prompt

// DefaultTemplate is the process-wide default prompt. Loaded once; components
// that need the default reference this constant rather than re-declaring it.
// It intentionally contains no placeholders: the composer appends the ticket
// body when a template does not place it explicitly.
const DefaultTemplate = `You are a support assistant. Your task is to extract key information from a support ticket and provide a clean, structured summary for internal use.

Create the output in **this format**:

---

### SUMMARY
A brief 1-2 sentence overview of the customer's request or issue.

### ISSUE DESCRIPTION
A clear explanation of the problem in the customer's own context.

### SUGGESTED NEXT STEPS
- Recommend 2-3 concrete actions for the support team.
- If needed, mention information to ask the customer.

---

Guidelines:
- Do NOT include a metadata section.
- Do NOT write "Not provided" or "Not mentioned."
- If no action is needed, make that clear in the summary.
- Be concise. Prioritize signal over completeness.`

// FollowupTemplate frames a follow-up question against an existing summary.
const FollowupTemplate = `You're a helpful assistant analyzing a support ticket.

Here is the content of the ticket:
{{ticketContent}}

Now, please answer the following specific question about this ticket:
{{question}}

Provide a concise, direct answer based on the ticket information above.
If the question cannot be answered with the available information, explain why.`
