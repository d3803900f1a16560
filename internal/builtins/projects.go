package builtins

import (
	"context"
	"fmt"
	"strings"
)

type detail struct {
	Key    string
	Value  string
	Values []string
}

func (d detail) text() string {
	if d.Values != nil {
		return strings.Join(d.Values, ", ")
	}
	return d.Value
}

type projectEnv struct {
	Name    string
	Details []detail
}

type project struct {
	Name        string
	Description string
	General     string
	Envs        []projectEnv
}

func (p project) env(name string) (projectEnv, bool) {
	for _, e := range p.Envs {
		if e.Name == name {
			return e, true
		}
	}
	return projectEnv{}, false
}

var projects = []project{
	{
		Name:        "java-core",
		Description: "Enterprise Java application with Spring Boot backend",
		General:     "Core Java business logic service with Spring Boot framework",
		Envs: []projectEnv{
			{Name: "java", Details: []detail{
				{Key: "framework", Value: "Spring Boot 3.2"},
				{Key: "build_tool", Value: "Maven"},
				{Key: "java_version", Value: "17"},
				{Key: "dependencies", Values: []string{"spring-boot-starter-web", "spring-boot-starter-data-jpa", "junit5"}},
				{Key: "architecture", Value: "Microservices with REST APIs"},
			}},
		},
	},
	{
		Name:        "node-api",
		Description: "RESTful API service built with Node.js and TypeScript",
		General:     "Node.js TypeScript API service with Express framework",
		Envs: []projectEnv{
			{Name: "node", Details: []detail{
				{Key: "runtime", Value: "Node.js 18+"},
				{Key: "framework", Value: "Express.js"},
				{Key: "package_manager", Value: "npm"},
				{Key: "dependencies", Values: []string{"express", "@types/express", "typescript", "jest"}},
				{Key: "architecture", Value: "RESTful microservice"},
			}},
			{Name: "typescript", Details: []detail{
				{Key: "version", Value: "5.0+"},
				{Key: "config", Value: "Strict mode enabled"},
				{Key: "tools", Values: []string{"ESLint", "Prettier", "Jest"}},
				{Key: "types", Value: "Full type coverage with @types packages"},
			}},
		},
	},
	{
		Name:        "frontend-app",
		Description: "React-based frontend application with TypeScript",
		General:     "Modern React frontend with TypeScript and Vite",
		Envs: []projectEnv{
			{Name: "typescript", Details: []detail{
				{Key: "framework", Value: "React 18"},
				{Key: "bundler", Value: "Vite"},
				{Key: "state", Value: "Redux Toolkit"},
				{Key: "testing", Value: "Vitest + React Testing Library"},
				{Key: "styling", Value: "Tailwind CSS"},
			}},
			{Name: "node", Details: []detail{
				{Key: "runtime", Value: "Node.js 18+"},
				{Key: "package_manager", Value: "yarn"},
				{Key: "scripts", Value: "Build, test, lint automation"},
			}},
		},
	},
}

func findProject(name string) (project, bool) {
	for _, p := range projects {
		if p.Name == name {
			return p, true
		}
	}
	return project{}, false
}

func projectNames() []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}

// projectInfo answers get-project-info. Unknown projects are reported in the
// text result rather than as an error so the client can show the choices.
func projectInfo(_ context.Context, args map[string]any) (string, error) {
	name := stringArg(args, "project_name")
	environment := strings.ToLower(stringArg(args, "environment"))

	p, ok := findProject(strings.ToLower(name))
	if !ok {
		return fmt.Sprintf("Project '%s' not found. Available projects: %s",
			name, strings.Join(projectNames(), ", ")), nil
	}

	if env, ok := p.env(environment); ok {
		var b strings.Builder
		fmt.Fprintf(&b, "**%s - %s Environment:**", name, strings.ToUpper(environment))
		for _, d := range env.Details {
			fmt.Fprintf(&b, "\n- %s: %s", titleCase(d.Key), d.text())
		}
		return b.String(), nil
	}
	if environment == "general" {
		return fmt.Sprintf("**%s:** %s", name, p.General), nil
	}
	return fmt.Sprintf("**%s:** %s", name, p.Description), nil
}
