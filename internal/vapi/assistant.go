// Package vapi holds the voice-call SDK collaborator contract: the start
// request shape the browser shim forwards to the SDK, and the fixed
// interviewer assistant configuration.
package vapi

// StartRequest selects either a pre-built conversational workflow or an
// inline assistant configuration. Exactly one of WorkflowID/Assistant is set.
type StartRequest struct {
	WorkflowID     string            `json:"workflowId,omitempty"`
	Assistant      *Assistant        `json:"assistant,omitempty"`
	VariableValues map[string]string `json:"variableValues,omitempty"`
}

// Assistant is an inline voice-assistant configuration.
type Assistant struct {
	Name         string      `json:"name"`
	FirstMessage string      `json:"firstMessage"`
	Model        Model       `json:"model"`
	Voice        Voice       `json:"voice"`
	Transcriber  Transcriber `json:"transcriber"`
}

// Model configures the conversational model behind the assistant.
type Model struct {
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Messages []ModelMessage `json:"messages"`
}

// ModelMessage is one entry of the assistant's seeded conversation.
type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Voice configures speech synthesis.
type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// Transcriber configures speech-to-text.
type Transcriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

const interviewerSystemPrompt = `You are a professional job interviewer conducting a real-time voice interview with a candidate. Your goal is to assess their qualifications, motivation, and fit for the role.

Interview Guidelines:
Follow the structured question flow:
{{questions}}

Engage naturally and react appropriately:
Listen actively to responses and acknowledge them before moving forward.
Ask brief follow-up questions if a response is vague or requires more detail.
Keep the conversation flowing smoothly while maintaining control.
Be professional, yet warm and welcoming:

Use official yet friendly language.
Keep responses concise and to the point (like in a real voice interview).
Avoid robotic phrasing - sound natural and conversational.
Answer the candidate's questions professionally:

If asked about the role, company, or expectations, provide a clear and relevant answer.
If unsure, redirect the candidate to HR for more details.

Conclude the interview properly:
Thank the candidate for their time.
Inform them that the company will reach out soon with feedback.
End the conversation on a polite and positive note.

- Be sure to be professional and polite.
- Keep all your responses short and simple. Use official language, but be kind and welcoming.
- This is a voice conversation, so keep your responses short, like in a real conversation. Don't ramble for too long.`

// Interviewer returns the fixed interviewer assistant. The question list is
// injected through the {{questions}} variable.
func Interviewer() *Assistant {
	return &Assistant{
		Name:         "Interviewer",
		FirstMessage: "Hello! Thank you for taking the time to speak with me today. I'm excited to learn more about you and your experience.",
		Model: Model{
			Provider: "openai",
			Model:    "gpt-4",
			Messages: []ModelMessage{
				{Role: "system", Content: interviewerSystemPrompt},
			},
		},
		Voice: Voice{
			Provider: "11labs",
			VoiceID:  "sarah",
		},
		Transcriber: Transcriber{
			Provider: "deepgram",
			Model:    "nova-2",
			Language: "en",
		},
	}
}
