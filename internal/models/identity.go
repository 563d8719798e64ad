package models

import "strconv"

// IdentityKind вид личности, от имени которой выполняется запрос.
type IdentityKind string

const (
	// IdentityGuest: анонимное устройство.
	IdentityGuest IdentityKind = "guest"
	// IdentityMember: вошедший участник.
	IdentityMember IdentityKind = "member"
	// IdentityOwner: администратор из конфигурации, в базе не хранится.
	IdentityOwner IdentityKind = "owner"
)

// Identity описывает личность запроса: участника, гостя или владельца.
type Identity struct {
	Kind     IdentityKind
	MemberID int64  // Только для IdentityMember
	Username string // Имя участника или отображаемое имя владельца
	GuestID  string // Идентификатор устройства гостя
}

// GuestIdentity создаёт личность гостя для устройства deviceID.
func GuestIdentity(deviceID string) Identity {
	return Identity{Kind: IdentityGuest, GuestID: deviceID}
}

// MemberIdentity создаёт личность участника.
func MemberIdentity(id int64, username string) Identity {
	return Identity{Kind: IdentityMember, MemberID: id, Username: username}
}

// OwnerIdentity создаёт личность владельца.
func OwnerIdentity(displayName string) Identity {
	return Identity{Kind: IdentityOwner, Username: displayName}
}

// IsOwner сообщает, является ли личность владельцем.
func (i Identity) IsOwner() bool {
	return i.Kind == IdentityOwner
}

// LedgerKey ключ журнала разблокированных эпизодов. У владельца журнала нет:
// доступ ему открыт всегда, и до хранилища его запросы не доходят.
func (i Identity) LedgerKey() string {
	switch i.Kind {
	case IdentityMember:
		return "unlocked_" + i.Username
	case IdentityGuest:
		return "unlocked_guest:" + i.GuestID
	default:
		return ""
	}
}

// FavoritesKey ключ списка избранного. Участник адресуется по ID, поэтому
// переименование избранное не теряет.
func (i Identity) FavoritesKey() string {
	switch i.Kind {
	case IdentityMember:
		return "member:" + strconv.FormatInt(i.MemberID, 10)
	case IdentityGuest:
		return "guest:" + i.GuestID
	default:
		return "owner"
	}
}

// String используется в логах.
func (i Identity) String() string {
	switch i.Kind {
	case IdentityMember:
		return "member:" + strconv.FormatInt(i.MemberID, 10)
	case IdentityGuest:
		return "guest:" + i.GuestID
	default:
		return string(i.Kind)
	}
}
