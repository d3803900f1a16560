package builtins

import (
	"context"
	"fmt"
	"strings"
)

type toolInfo struct {
	Name        string
	Description string
}

type category struct {
	Name  string
	Tools []toolInfo
}

func (c category) matches(query string) bool {
	if strings.Contains(strings.ToLower(c.Name), query) {
		return true
	}
	for _, t := range c.Tools {
		if strings.Contains(strings.ToLower(t.Name), query) || strings.Contains(strings.ToLower(t.Description), query) {
			return true
		}
	}
	return false
}

type environment struct {
	Name       string
	Categories []category
}

var environments = []environment{
	{Name: "java", Categories: []category{
		{Name: "build_tools", Tools: []toolInfo{
			{"maven", "XML-based project management and build tool"},
			{"gradle", "Groovy/Kotlin DSL build automation tool"},
			{"sbt", "Scala Build Tool, also used for Java projects"},
		}},
		{Name: "testing", Tools: []toolInfo{
			{"junit5", "Modern Java testing framework"},
			{"mockito", "Mocking framework for unit tests"},
			{"testcontainers", "Integration testing with Docker containers"},
			{"spring-boot-test", "Testing support for Spring Boot applications"},
		}},
		{Name: "frameworks", Tools: []toolInfo{
			{"spring-boot", "Production-ready Java application framework"},
			{"quarkus", "Kubernetes-native Java framework"},
			{"micronaut", "Modern microservices framework"},
		}},
		{Name: "ide", Tools: []toolInfo{
			{"intellij", "JetBrains IntelliJ IDEA"},
			{"eclipse", "Eclipse IDE for Java Developers"},
			{"vscode", "Visual Studio Code with Java extensions"},
		}},
	}},
	{Name: "node", Categories: []category{
		{Name: "package_managers", Tools: []toolInfo{
			{"npm", "Default Node.js package manager"},
			{"yarn", "Fast, reliable package manager"},
			{"pnpm", "Efficient package manager with hard links"},
		}},
		{Name: "testing", Tools: []toolInfo{
			{"jest", "JavaScript testing framework"},
			{"mocha", "Feature-rich test framework"},
			{"vitest", "Fast Vite-native test framework"},
		}},
		{Name: "frameworks", Tools: []toolInfo{
			{"express", "Minimal web application framework"},
			{"fastify", "High-performance web framework"},
			{"nest", "Progressive Node.js framework"},
		}},
		{Name: "tools", Tools: []toolInfo{
			{"nodemon", "Development server with auto-restart"},
			{"eslint", "JavaScript/TypeScript linter"},
			{"prettier", "Code formatter"},
		}},
	}},
	{Name: "typescript", Categories: []category{
		{Name: "compilers", Tools: []toolInfo{
			{"tsc", "Official TypeScript compiler"},
			{"esbuild", "Fast TypeScript/JavaScript bundler"},
			{"swc", "Super-fast TypeScript/JavaScript compiler"},
		}},
		{Name: "frameworks", Tools: []toolInfo{
			{"react", "UI library with TypeScript support"},
			{"vue", "Progressive framework with TypeScript"},
			{"angular", "Full-featured TypeScript framework"},
		}},
		{Name: "tools", Tools: []toolInfo{
			{"ts-node", "Execute TypeScript directly"},
			{"typescript-eslint", "TypeScript-specific ESLint rules"},
			{"type-fest", "Collection of essential TypeScript types"},
		}},
		{Name: "bundlers", Tools: []toolInfo{
			{"webpack", "Module bundler with TypeScript support"},
			{"vite", "Fast build tool with native TypeScript"},
			{"rollup", "Module bundler for libraries"},
		}},
	}},
}

func findEnvironment(name string) (environment, bool) {
	for _, e := range environments {
		if e.Name == name {
			return e, true
		}
	}
	return environment{}, false
}

func environmentNames() []string {
	names := make([]string, len(environments))
	for i, e := range environments {
		names[i] = e.Name
	}
	return names
}

// environmentTools answers get-environment-tools. A non-empty query keeps only
// the categories whose name, tool names or descriptions contain it.
func environmentTools(_ context.Context, args map[string]any) (string, error) {
	rawEnv := stringArg(args, "environment")
	rawQuery := stringArg(args, "query")
	name := strings.ToLower(rawEnv)
	query := strings.ToLower(rawQuery)

	env, ok := findEnvironment(name)
	if !ok {
		return fmt.Sprintf("Environment '%s' not supported. Available: %s",
			rawEnv, strings.Join(environmentNames(), ", ")), nil
	}

	cats := env.Categories
	heading := fmt.Sprintf("**%s Development Tools:**", strings.ToUpper(name))
	if query != "" {
		cats = nil
		for _, c := range env.Categories {
			if c.matches(query) {
				cats = append(cats, c)
			}
		}
		if len(cats) == 0 {
			return fmt.Sprintf("No %s tools found matching '%s'", name, rawQuery), nil
		}
		heading = fmt.Sprintf("**%s Tools matching '%s':**", strings.ToUpper(name), rawQuery)
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "\n**%s:**", titleCase(c.Name))
		for _, t := range c.Tools {
			fmt.Fprintf(&b, "\n- **%s**: %s", t.Name, t.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
