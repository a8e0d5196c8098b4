package authoring

// Тексты уведомлений. Пользователь видит только их, детали ошибок уходят в лог.
const (
	MsgSomethingWrong = "Что-то пошло не так!"

	MsgCourseCreated     = "Создан новый курс"
	MsgCourseUpdated     = "Курс обновлен"
	MsgSectionCreated    = "Создан новый раздел!"
	MsgSectionUpdated    = "Раздел обновлен"
	MsgSectionsReordered = "Разделы успешно переупорядочены"
	MsgResourceUploaded  = "Новый материал загружен!"
	MsgResourceDeleted   = "Материал удален!"
	MsgProgressUpdated   = "Прогресс обновлен!"

	MsgConfirmDelete = "Вы абсолютно уверены?"

	MsgCompleteReady   = "Отличная работа! Готово к публикации."
	MsgCompleteMissing = "Вы сможете опубликовать только после заполнения всех обязательных полей."
)

// publishedMessage: "Курс опубликован", "Раздел неопубликован" и т.п.
func publishedMessage(t Target, wasPublished bool) string {
	if wasPublished {
		return t.itemName() + " неопубликован"
	}
	return t.itemName() + " опубликован"
}

func deletedMessage(t Target) string {
	return t.itemName() + " удален"
}
