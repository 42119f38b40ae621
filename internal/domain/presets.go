package domain

// ServicePresets is the quick-pick list of agency services offered when adding
// line items. Order matches the editor dropdown.
var ServicePresets = []ServicePreset{
	{Name: "Website Development", Description: "Custom website design and development"},
	{Name: "Website Redesign", Description: "Modern redesign of existing website"},
	{Name: "E-commerce Website", Description: "Full-featured online store development"},
	{Name: "Landing Page", Description: "High-converting single page design"},
	{Name: "SEO Optimization", Description: "Search engine optimization services"},
	{Name: "Meta Ads Management", Description: "Facebook & Instagram advertising"},
	{Name: "Google Ads Management", Description: "Google Ads campaign management"},
	{Name: "Social Media Management", Description: "Monthly social media handling"},
	{Name: "Content Creation", Description: "Graphics, reels, and content design"},
	{Name: "Logo Design", Description: "Professional brand logo design"},
	{Name: "Brand Identity", Description: "Complete brand identity package"},
	{Name: "Website Maintenance", Description: "Monthly website maintenance and updates"},
	{Name: "Domain & Hosting", Description: "Annual domain and hosting services"},
	{Name: "Email Setup", Description: "Professional email configuration"},
	{Name: "Consultation", Description: "Digital marketing consultation"},
}
