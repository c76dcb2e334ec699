package controllers

import (
	"ecobayanihan/internal/events"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"

	authController "ecobayanihan/internal/controllers/auth"
	catalogController "ecobayanihan/internal/controllers/catalog"
	eventController "ecobayanihan/internal/controllers/events"
	participantController "ecobayanihan/internal/controllers/participants"
	pointsController "ecobayanihan/internal/controllers/points"
	registrationController "ecobayanihan/internal/controllers/registrations"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	Catalog      catalogController.CatalogControllerInterface
	Event        eventController.EventControllerInterface
	Participant  participantController.ParticipantControllerInterface
	Points       pointsController.PointsControllerInterface
	Registration registrationController.RegistrationControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
) Controllers {
	return Controllers{
		Auth:         authController.New(services, repos),
		Catalog:      catalogController.New(repos, services),
		Event:        eventController.New(repos, services, eventBus),
		Participant:  participantController.New(repos, services),
		Points:       pointsController.New(services),
		Registration: registrationController.New(repos, services, eventBus),
	}
}
