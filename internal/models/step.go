package models

// Step labels the HTTP-method category a team has invoked at least once
type Step string

const (
	StepLookEleven Step = "GET_ELEVEN"
	StepLookMike   Step = "GET_MIKE"
	StepSendItem   Step = "POST"
	StepUseItem    Step = "PUT"
	StepFix        Step = "PATCH"
	StepRemove     Step = "DELETE"
	StepStatus     Step = "HEAD"
	StepOptions    Step = "OPTIONS"
)

// Phase is the escape state of a team
type Phase string

const (
	PhaseNotReady Phase = "NOT_READY"
	PhaseReady    Phase = "READY"
	PhaseEscaped  Phase = "ESCAPED"
)
