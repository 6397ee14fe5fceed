package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"careerpath/career-advisor/internal/logger"
)

// ContextEntry is one prior agent output handed to another agent.
type ContextEntry struct {
	Agent string `json:"agent"`
	Text  string `json:"text"`
}

// Exchange is one Think call kept for introspection.
type Exchange struct {
	Query    string         `json:"query"`
	Response string         `json:"response"`
	Context  []ContextEntry `json:"context,omitempty"`
	At       time.Time      `json:"at"`
}

// Agent is a named persona that turns a task into one gateway call.
type Agent struct {
	Name      string
	Role      string
	Expertise []string

	systemPrompt string
	prompts      *PromptLibrary
	gateway      CompletionGateway
	maxTokens    int

	mu         sync.RWMutex
	transcript []Exchange
}

// NewAgent builds an agent from a persona. An empty persona system prompt is synthesized
// from the name, role and expertise.
func NewAgent(gateway CompletionGateway, prompts *PromptLibrary, persona AgentPersona, maxTokens int) *Agent {
	return &Agent{
		Name:         persona.Name,
		Role:         persona.Role,
		Expertise:    append([]string(nil), persona.Expertise...),
		systemPrompt: strings.TrimSpace(persona.SystemPrompt),
		prompts:      prompts,
		gateway:      gateway,
		maxTokens:    maxTokens,
	}
}

func newPersonaAgent(gateway CompletionGateway, prompts *PromptLibrary, key string, maxTokens int) (*Agent, error) {
	persona, err := prompts.Persona(key)
	if err != nil {
		return nil, err
	}
	return NewAgent(gateway, prompts, persona, maxTokens), nil
}

// SystemPrompt returns the persona text the agent speaks with.
func (a *Agent) SystemPrompt() string {
	if a.systemPrompt != "" {
		return a.systemPrompt
	}

	text, err := a.prompts.Render(TplDefaultSystemPrompt, map[string]interface{}{
		"Name":      a.Name,
		"Role":      a.Role,
		"Expertise": a.Expertise,
	})
	if err != nil {
		return fmt.Sprintf("You are %s, a %s.", a.Name, a.Role)
	}
	return text
}

// Think sends the persona, the optional context block and the task as one completion request.
// Gateway failures are returned unchanged so callers can inspect the upstream code.
func (a *Agent) Think(ctx context.Context, task string, entries []ContextEntry) (string, error) {
	prompt, err := a.prompts.Render(TplAgentTurn, map[string]interface{}{
		"SystemPrompt": a.SystemPrompt(),
		"Context":      entries,
		"Task":         strings.TrimSpace(task),
	})
	if err != nil {
		return "", err
	}

	log := logger.With("agent")
	log.Info().Str("name", a.Name).Msg("💭 Agent is thinking")

	response, err := a.gateway.Complete(ctx, CompletionRequest{
		Prompt:    prompt,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		log.Error().Err(err).Str("name", a.Name).Msg("❌ Agent call failed")
		return "", err
	}

	response = strings.TrimSpace(response)
	a.record(Exchange{
		Query:    task,
		Response: response,
		Context:  append([]ContextEntry(nil), entries...),
		At:       time.Now().UTC(),
	})

	log.Info().Str("name", a.Name).Msg("✅ Agent completed analysis")
	return response, nil
}

// render fills a task template and runs it through Think.
func (a *Agent) render(ctx context.Context, name string, data map[string]interface{}, entries []ContextEntry) (string, error) {
	task, err := a.prompts.Render(name, data)
	if err != nil {
		return "", err
	}
	return a.Think(ctx, task, entries)
}

func (a *Agent) record(e Exchange) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcript = append(a.transcript, e)
}

// Transcript returns a copy of every successful exchange, oldest first.
func (a *Agent) Transcript() []Exchange {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Exchange, len(a.transcript))
	copy(out, a.transcript)
	return out
}
