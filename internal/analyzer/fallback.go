package analyzer

import "github.com/BerylCAtieno/legalease/internal/models"

const MockProvider = "mock"

// MockAnalysis is returned when no model provider is configured.
// The content is fixed demo-mode text and does not depend on the document.
func MockAnalysis() *models.DocumentAnalysis {
	return &models.DocumentAnalysis{
		Summary:      "This appears to be a legal document with various terms and conditions. To get a detailed, user-friendly analysis, please configure your AI API key.",
		DocumentType: "Legal Document",
		WhatItMeans:  "This document creates legal obligations between parties. Real analysis available with API configuration.",
		KeyPoints: []string{
			"This is a demo analysis - configure your xAI Grok API key for real insights",
			"The document contains standard legal language",
			"Full analysis requires AI integration",
		},
		PotentialRisks: []models.Risk{
			{
				Risk:   "Cannot provide real risk assessment without AI configuration",
				Impact: "You're missing detailed analysis of potential issues",
				Advice: "Add your xAI Grok API key to get comprehensive risk analysis",
			},
		},
		RedFlags:        []string{"API key not configured - real analysis unavailable"},
		YourRights:      []string{"Cannot determine specific rights without AI analysis"},
		YourObligations: []string{"Cannot identify specific obligations without AI analysis"},
		BeforeSigning: []string{
			"Configure your xAI Grok API key for detailed analysis",
			"Upload the document again after configuration",
			"Consider consulting a lawyer for important agreements",
		},
		OverallAssessment: "Demo mode active. Configure xAI Grok 4 Fast (free with 2M context) API key to get real, user-friendly legal document analysis.",
		Complexity:        models.ComplexityUnknown,
		RiskLevel:         models.RiskLevelUnknown,
		AIProvider:        MockProvider,
	}
}

// FallbackAnalysis wraps a completion that could not be parsed. The raw text
// is kept verbatim in OverallAssessment so the model output is never lost.
func FallbackAnalysis(raw string) *models.DocumentAnalysis {
	return &models.DocumentAnalysis{
		Summary:           "We analyzed your document and found important information",
		DocumentType:      "Legal Document",
		WhatItMeans:       "This appears to be a legal agreement that creates obligations for both parties",
		KeyPoints:         []string{"Please review the full analysis above for detailed information"},
		PotentialRisks:    []models.Risk{},
		RedFlags:          []string{},
		YourRights:        []string{},
		YourObligations:   []string{},
		BeforeSigning:     []string{"Consider consulting with a legal professional"},
		OverallAssessment: raw,
		Complexity:        models.ComplexityModerate,
		RiskLevel:         models.RiskLevelMedium,
	}
}
