package repositories

type Repository struct {
	Participant       ParticipantRepository
	StaffAccount      StaffAccountRepository
	CleanupEvent      CleanupEventRepository
	Registration      CleanupRegistrationRepository
	LoginAttempt      LoginAttemptRepository
	PointsTransaction PointsTransactionRepository
}

func New() Repository {
	return Repository{
		Participant:       NewParticipantRepository(),
		StaffAccount:      NewStaffAccountRepository(),
		CleanupEvent:      NewCleanupEventRepository(),
		Registration:      NewCleanupRegistrationRepository(),
		LoginAttempt:      NewLoginAttemptRepository(),
		PointsTransaction: NewPointsTransactionRepository(),
	}
}
