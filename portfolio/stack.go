package portfolio

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stack is a technology shown on project cards.
type Stack int

const (
	// Languages
	Go Stack = iota
	TypeScript
	JavaScript
	Python
	Java

	// Frontend
	React
	ReactNative

	// Backend
	GraphQL
	Node
	Django
	FastAPI
	Nest

	// Cloud
	AWS
	GCP

	// Messaging
	NATS
	Kafka
	RabbitMQ

	// Databases
	ArangoDB
	Redis
	Postgres
	Mongo

	// Tools
	Docker
	Kubernetes
	Terraform
)

type stackInfo struct {
	key   string
	name  string
	color string
}

var stacks = [...]stackInfo{
	Go:          {"go", "Go", "#00ADD8"},
	TypeScript:  {"typescript", "TypeScript", "#3178C6"},
	JavaScript:  {"javascript", "JavaScript", "#F7DF1E"},
	Python:      {"python", "Python", "#3776AB"},
	Java:        {"java", "Java", "#ED8B00"},
	React:       {"react", "React", "#61DAFB"},
	ReactNative: {"reactnative", "React Native", "#61DAFB"},
	GraphQL:     {"graphql", "GraphQL", "#E10098"},
	Node:        {"node", "Node", "#339933"},
	Django:      {"django", "Django", "#092E20"},
	FastAPI:     {"fastapi", "FastAPI", "#009688"},
	Nest:        {"nest", "Nest", "#E0234E"},
	AWS:         {"aws", "AWS", "#FF9900"},
	GCP:         {"gcp", "Google Cloud", "#4285F4"},
	NATS:        {"nats", "NATS", "#27AAE1"},
	Kafka:       {"kafka", "Kafka", "#231F20"},
	RabbitMQ:    {"rabbitmq", "RabbitMq", "#FF6600"},
	ArangoDB:    {"arangodb", "ArangoDB", "#DDE072"},
	Redis:       {"redis", "Redis", "#DC382D"},
	Postgres:    {"postgres", "Postgres", "#4169E1"},
	Mongo:       {"mongo", "MongoDB", "#47A248"},
	Docker:      {"docker", "Docker", "#2496ED"},
	Kubernetes:  {"kubernetes", "Kubernetes", "#326CE5"},
	Terraform:   {"terraform", "Terraform", "#7B42BC"},
}

// WorkStack is the set of technologies used professionally.
var WorkStack = []Stack{
	JavaScript, Node, TypeScript, Nest, Python, Java, AWS,
	React, GCP, Docker, Terraform, RabbitMQ, Kafka,
}

func (s Stack) valid() bool { return s >= 0 && int(s) < len(stacks) }

// Key is the identifier used in data files.
func (s Stack) Key() string {
	if !s.valid() {
		return ""
	}
	return stacks[s].key
}

// String returns the display name.
func (s Stack) String() string {
	if !s.valid() {
		return fmt.Sprintf("Stack(%d)", int(s))
	}
	return stacks[s].name
}

// Color returns the brand color as a CSS hex value.
func (s Stack) Color() string {
	if !s.valid() {
		return ""
	}
	return stacks[s].color
}

// ParseStack looks a stack up by key, case-insensitively.
func ParseStack(key string) (Stack, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, info := range stacks {
		if info.key == key {
			return Stack(i), nil
		}
	}
	return 0, fmt.Errorf("portfolio: unknown stack %q", key)
}

func (s Stack) MarshalYAML() (interface{}, error) {
	if !s.valid() {
		return nil, fmt.Errorf("portfolio: invalid stack %d", int(s))
	}
	return s.Key(), nil
}

func (s *Stack) UnmarshalYAML(value *yaml.Node) error {
	var key string
	if err := value.Decode(&key); err != nil {
		return err
	}
	parsed, err := ParseStack(key)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = parsed
	return nil
}
