package feedback

import "encoding/json"

// responseSchema constrains the structured-generation call. The category enum
// keeps the model from inventing rubric entries.
var responseSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "totalScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "categoryScores": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string",
            "enum": [
              "Communication Skills",
              "Technical Knowledge",
              "Problem-Solving",
              "Cultural & Role Fit",
              "Confidence & Clarity"
            ]
          },
          "score": {"type": "integer", "minimum": 0, "maximum": 100},
          "comment": {"type": "string"}
        },
        "required": ["name", "score", "comment"]
      }
    },
    "strengths": {"type": "array", "items": {"type": "string"}},
    "areasForImprovement": {"type": "array", "items": {"type": "string"}},
    "finalAssessment": {"type": "string"}
  },
  "required": ["totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"]
}`)

// generatedFeedback mirrors the schema for decoding model output.
type generatedFeedback struct {
	TotalScore          int             `json:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
}
