package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeaseExpiryReminder = "leases.expiry.reminder"

type LeaseExpiryReminderPayload struct {
	ContractID string `json:"contractId" validate:"required,uuid"`
	EndDate    string `json:"endDate" validate:"required"`
}

func NewLeaseExpiryReminderTask(payload LeaseExpiryReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeaseExpiryReminder, data), nil
}

func ParseLeaseExpiryReminderPayload(task *asynq.Task) (LeaseExpiryReminderPayload, error) {
	var payload LeaseExpiryReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeaseExpiryReminderPayload{}, err
	}
	return payload, nil
}
