package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lifesure/insurance-ai-platform/internal/policies"
	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// GenConfig carries per-stage generation parameters.
type GenConfig struct {
	Temperature float32
	MaxTokens   int32
}

var stageGenConfigs = map[session.Stage]GenConfig{
	session.StageIntroduction:          {Temperature: 0.8, MaxTokens: 150},
	session.StageQualification:         {Temperature: 0.6, MaxTokens: 200},
	session.StageInformation:           {Temperature: 0.7, MaxTokens: 600},
	session.StagePersuasion:            {Temperature: 0.7, MaxTokens: 400},
	session.StageInformationCollection: {Temperature: 0.5, MaxTokens: 200},
	session.StageObjectionHandling:     {Temperature: 0.7, MaxTokens: 300},
	session.StageClosing:               {Temperature: 0.6, MaxTokens: 150},
}

var defaultGenConfig = GenConfig{Temperature: 0.7, MaxTokens: 500}

// StageGenConfig returns the generation parameters for a stage.
func StageGenConfig(stage session.Stage) GenConfig {
	if cfg, ok := stageGenConfigs[stage]; ok {
		return cfg
	}
	return defaultGenConfig
}

const baseSystemPrompt = `You are an AI life insurance sales agent named %s for %s.

Your role is to help potential customers understand life insurance options and find suitable coverage. Build trust, provide valuable information, and identify genuinely interested customers.

Core principles:
1. Transparency: identify yourself as an AI assistant early in the conversation
2. Empathy: show understanding for customer concerns
3. Honesty: provide accurate information and admit when you don't know something
4. Respect: never pressure or be aggressive
5. Value first: focus on helping, not selling

Style: professional yet friendly, conversational, jargon-free, one question at a time.

Never make false promises or guarantees, never misrepresent yourself as human, never provide medical or legal advice, and never create false urgency.`

var stageTasks = map[session.Stage]string{
	session.StageIntroduction: `Current stage: Introduction.
Greet the customer warmly, introduce yourself as an AI life insurance advisor, explain how you can help, and start building rapport. Wait for the customer's response before asking questions.`,

	session.StageQualification: `Current stage: Qualification.
Gather information to understand the customer's needs: age, purpose for seeking insurance, dependents, and coverage amount interest. Ask ONE question at a time and explain why you're asking. Handle partial answers gracefully and never pressure.`,

	session.StageInformation: `Current stage: Policy Information.
Present the most suitable policies for this customer's profile. Explain features and benefits in simple language using examples relevant to their situation. Be honest about limitations and don't overwhelm with detail.`,

	session.StagePersuasion: `Current stage: Persuasion.
Address concerns empathetically and emphasize the benefits that matter to this customer. Premiums increase with age, so securing coverage now is often sensible, but never be aggressive and accept hesitation gracefully.`,

	session.StageObjectionHandling: `Current stage: Objection handling.
Listen to and acknowledge the customer's concern, respond with facts and empathy, and address the root cause. If the objection cannot be overcome, accept it gracefully.`,

	session.StageInformationCollection: `Current stage: Information collection.
Collect application details from this interested customer one piece at a time: full name, phone, national ID, address, policy of interest. Explain why each is needed, reassure about privacy, and thank them for each answer.`,

	session.StageClosing: `Current stage: Closing.
Thank the customer, confirm that the sales team will contact them soon, and answer any final questions clearly and directly.`,
}

// BuildSystemPrompt assembles the stage-specific system prompt.
func BuildSystemPrompt(stage session.Stage, agentName, companyName string, profile session.CustomerProfile, catalog []policies.Policy) string {
	var b strings.Builder
	fmt.Fprintf(&b, baseSystemPrompt, agentName, companyName)
	if task, ok := stageTasks[stage]; ok {
		b.WriteString("\n\n")
		b.WriteString(task)
	}
	b.WriteString("\n\nCustomer profile: ")
	b.WriteString(formatProfile(profile))
	if len(catalog) > 0 {
		b.WriteString("\n\nAvailable policies:\n")
		b.WriteString(formatCatalog(catalog))
	}
	return b.String()
}

var welcomeTemplates = map[string][]string{
	"morning": {
		"Good morning! I'm %s, your AI life insurance advisor. I'm here to help you understand your coverage options. How can I assist you today?",
		"Hello! Good morning. I'm %s, an AI assistant specializing in life insurance. I'd love to help you explore your options. What brings you here today?",
	},
	"afternoon": {
		"Good afternoon! I'm %s, your AI life insurance advisor. How can I help you find the right coverage today?",
		"Hello! I'm %s. I'm here as your AI life insurance assistant to answer questions and help you find suitable policies. What would you like to know?",
	},
	"evening": {
		"Good evening! I'm %s, your AI life insurance advisor. Even though it's evening, I'm here to help. What can I assist you with?",
		"Hello! I'm %s. I understand you're looking into life insurance. I'm here to help make that process easier for you. How can I assist?",
	},
	"generic": {
		"Hello! I'm %s, your AI life insurance advisor. I'm here to help you understand your coverage options and find the right policy for your needs. How can I help you today?",
		"Hi there! I'm %s, an AI assistant specializing in life insurance. My goal is to help you make an informed decision about coverage. What questions can I answer for you?",
	},
}

// WelcomeMessage returns a time-of-day appropriate greeting.
func WelcomeMessage(agentName string, now time.Time) string {
	hour := now.Hour()
	var key string
	switch {
	case hour >= 5 && hour < 12:
		key = "morning"
	case hour >= 12 && hour < 17:
		key = "afternoon"
	case hour >= 17 && hour < 22:
		key = "evening"
	default:
		key = "generic"
	}
	templates := welcomeTemplates[key]
	return fmt.Sprintf(templates[rand.Intn(len(templates))], agentName)
}

// Exit message variants keyed by the way the conversation ended.
const (
	ExitNotInterested = "not_interested"
	ExitLater         = "later"
	ExitExhausted     = "exhausted"
)

var exitTemplates = map[string]string{
	ExitNotInterested: `I completely understand. Life insurance is an important decision, and I respect that it might not be the right time for you right now.

If you change your mind in the future or have questions, please feel free to reach out. Thank you for your time today, and I wish you all the best!`,

	ExitLater: `No problem at all! I appreciate you taking the time to learn about your options.

If you have more questions later or want to continue our conversation, just reach out anytime. Thank you for your time today!`,

	ExitExhausted: `I seem to be having trouble confirming your details, so let's not go around in circles. A member of our team can pick this up with you directly, or you're welcome to start again whenever suits you.

Thank you for your patience today!`,
}

// ExitMessage returns the farewell for the given exit kind.
func ExitMessage(kind string) string {
	if msg, ok := exitTemplates[kind]; ok {
		return msg
	}
	return exitTemplates[ExitNotInterested]
}
