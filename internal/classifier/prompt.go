package classifier

import "fmt"

const promptTemplate = `Analyze the following email content and provide a structured JSON response.
Content for analysis:
Subject: %q
Snippet: %q

From Address: %q

Your task is to determine the following properties:
1.  "source": Identify the origin. If 'From Address' contains 'linkedin.com', 'indeed.com', 'naukri.com' set to "JobPortal". If 'From Address' contains 'youtube.com', 'facebook.com', 'twitter.com' set to "SocialMedia". If it looks like a generic newsletter (e.g., mailchimp.com, substack.com, "newsletter"), set to "Newsletter". Otherwise, set to "Gmail".
2.  "category": Give a specific, concise category.
    - For JobPortal: "Job Alert", "Application Update", "Recruiter Message".
    - For SocialMedia: "Notification", "New Post", "Friend Request".
    - For Newsletter: "General Newsletter", "Promotional Offer", "Product Update".
    - For Gmail (general): "Meeting Request", "Invoice/Receipt", "Action Required", "Important Update", "General Inquiry", "Spam/Promotion", "Personal".
3.  "isUrgent": boolean (true/false). True ONLY if it requires action within 24-48 hours (mentions "today", "tomorrow", "ASAP", "urgent", "deadline", "immediate").
4.  "isImportant": boolean (true/false). True if it's from a known person/contact, a work query, a bill/financial, related to your core responsibilities, or a personal conversation. False for mass marketing/newsletters, generic notifications, or spam.
5.  "summary": A concise, one-sentence summary of the email's main point.
6.  "snippet": The original snippet.

Return ONLY the JSON object. Do not include any other text.
Ensure 'isUrgent' and 'isImportant' are always boolean.
`

// BuildPrompt renders the fixed instruction prompt for one email.
func BuildPrompt(email Email) string {
	return fmt.Sprintf(promptTemplate, email.Subject, email.Snippet, email.From)
}
