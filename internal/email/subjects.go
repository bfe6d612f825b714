package email

const subjectLeaseExpiryReminderFmt = "Votre bail arrive à échéance le %s"
