package tools

import (
	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

// New assembles the full operation catalog. The remote operations all go
// through the given caller; the interview operations run locally against a
// fresh in-memory store. Descriptor order here is the order clients see in
// tool listings.
func New(client Caller) *catalog.Registry {
	interviews := newInterviewStore()

	return catalog.NewRegistry(
		generateEmbeddings(client),
		generateInfraTemplate(client),
		designDynamoDBSchema(client),
		validateOAuthConfig(client),
		validateIAMPolicy(client),
		scanDependencies(client),
		classifyDecision(client),
		assessRisk(client),
		checkFinancialImpact(client),
		checkCompliance(client),
		dispatchReview(client),
		synthesizeReview(client),
		searchPrecedents(client),
		recordOutcome(client),
		estimateBlastRadius(client),
		generateRollbackPlan(client),
		clusterErrors(client),
		queueAgentTask(client),
		storeAgentMemory(client),
		retrieveAgentMemory(client),
		searchAgentMemory(client),
		deleteAgentMemory(client),
		createTraceContext(client),
		acquireFileLock(client),
		releaseFileLock(client),
		checkFileLock(client),
		checkCLIReadiness(client),
		startInterview(interviews),
		answerInterview(interviews),
		interviewStatus(interviews),
		cancelInterview(interviews),
	)
}
