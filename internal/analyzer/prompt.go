package analyzer

import (
	"fmt"

	"github.com/BerylCAtieno/legalease/internal/models"
)

const DefaultDocumentType = "legal document"

const SystemInstruction = "You are a helpful legal advisor who specializes in explaining complex legal documents in simple, everyday language. " +
	"Your goal is to help regular people understand what they're signing and make informed decisions. " +
	"Always be clear, honest, and use plain English instead of legal jargon."

const promptTemplate = `You are a friendly legal expert helping everyday people understand legal documents. Analyze this %s and explain it in simple, clear language that anyone can understand.

Document Text:
"""
%s
"""

Please provide your analysis in the following JSON structure:
{
  "summary": "A clear, 2-3 sentence explanation of what this document is about in everyday language",
  "documentType": "What type of legal document this is (e.g., 'Rental Agreement', 'Employment Contract', 'Terms of Service')",
  "whatItMeans": "A simple explanation of what signing this document means for the person",
  "keyPoints": [
    "Most important things you need to know (in simple words)",
    "Your main rights and responsibilities",
    "Important deadlines or requirements"
  ],
  "potentialRisks": [
    {
      "risk": "What could go wrong (in plain English)",
      "impact": "How this could affect you",
      "advice": "What you should do about it"
    }
  ],
  "redFlags": [
    "Things that seem unfair or unusual",
    "Clauses that heavily favor the other party",
    "Anything that might be hard to comply with"
  ],
  "yourRights": [
    "Important rights you have under this agreement",
    "Protections available to you",
    "What the other party must do for you"
  ],
  "yourObligations": [
    "What you must do if you sign this",
    "Important rules you need to follow",
    "Payments or actions required from you"
  ],
  "beforeSigning": [
    "Questions you should ask",
    "Things to clarify or negotiate",
    "When you might want to consult a lawyer"
  ],
  "overallAssessment": "Is this generally fair/standard, or are there concerns? Should a regular person be worried about anything specific?",
  "complexity": "simple|moderate|complex - How difficult is this for a regular person to understand?",
  "riskLevel": "low|medium|high - Overall risk level for the person signing"
}

Write everything as if you're explaining to a friend who has no legal background. Use everyday words instead of legal jargon. Be helpful and honest about potential issues.
Respond with a single self-contained JSON object.`

// BuildPrompt cuts text to at most budget characters (hard cutoff, no word
// boundary handling) and embeds it in the analysis instruction.
// A non-positive budget disables truncation.
func BuildPrompt(text string, budget int, documentType string) models.AnalysisPrompt {
	if documentType == "" {
		documentType = DefaultDocumentType
	}

	runes := []rune(text)
	if budget > 0 && len(runes) > budget {
		runes = runes[:budget]
	}
	limited := string(runes)

	return models.AnalysisPrompt{
		Instruction:     fmt.Sprintf(promptTemplate, documentType, limited),
		TruncatedLength: len(runes),
	}
}
