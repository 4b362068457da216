// Package main HackFest Server API
//
//	@title						HackFest Server API
//	@version					1.0
//	@description				Hackathon event backend: registration, team formation, project submission, and admin review.
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Auth
//	@tag.description			Registration, login, and session management
//
//	@tag.name					User
//	@tag.description			Participant profiles and admin user management
//
//	@tag.name					Team
//	@tag.description			Team formation, invites, and join requests
//
//	@tag.name					Submission
//	@tag.description			Project submissions, review, and results
//
//	@tag.name					Contact
//	@tag.description			Public contact form
//
//	@tag.name					Event
//	@tag.description			Public event information
//
//	@tag.name					Admin
//	@tag.description			Organizer operations
package main
