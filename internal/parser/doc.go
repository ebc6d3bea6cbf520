// Package parser turns free-text scheduling commands into structured
// candidate proposals. It supports multiple LLM providers with retry
// logic, rate limiting, and response caching.
package parser
