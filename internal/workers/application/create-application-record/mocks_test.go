package createapplicationrecord

import (
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
)

func createMockJob() entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                1,
		Type:               TaskType,
		ProcessInstanceKey: 10,
		BpmnProcessId:      "application-lifecycle",
		ElementId:          "Activity_CreateApplicationRecord",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          "{}",
	}}
}
