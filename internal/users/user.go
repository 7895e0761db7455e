package users

type EmailAccount struct {
	EmailAccountID int    `json:"emailAccountId"`
	EmailAddress   string `json:"emailAddress"`
}

type User struct {
	UserID        int            `json:"userId"`
	UserName      string         `json:"userName"`
	EmailAccounts []EmailAccount `json:"emailAccounts"`
}

// FindEmailAccount returns the owner and the email account with the given id.
func FindEmailAccount(users []User, emailAccountID int) (*User, *EmailAccount) {
	for i := range users {
		for j := range users[i].EmailAccounts {
			if users[i].EmailAccounts[j].EmailAccountID == emailAccountID {
				return &users[i], &users[i].EmailAccounts[j]
			}
		}
	}
	return nil, nil
}
