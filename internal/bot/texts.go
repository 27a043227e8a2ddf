package bot

// Reply texts. The bot speaks Russian; text is a fixed literal set, not a
// localization layer.
const (
	msgStart          = "Привет! Выберите категорию:"
	msgSelectServices = "Выберите услуги:"
	msgOrderSummary   = "Вы выбрали:"
	msgCleared        = "Выбор очищен!"
	msgPDFGenerating  = "Генерация PDF..."
	msgPDFError       = "Ошибка при генерации PDF. Пожалуйста, попробуйте снова."

	msgAdminMenu     = "Админ-меню:"
	msgEnterPassword = "Введите пароль администратора:"
	msgWrongPassword = "Неверный пароль. Попробуйте снова или используйте /cancel для выхода."
	msgLoginSuccess  = "Вход выполнен!"
	msgLogout        = "Вы вышли из админки. Для входа снова потребуется пароль."

	msgServicesHeader = "📋 Список услуг:\n\n"
	msgNoServices     = "В этой категории нет услуг."

	msgAddCategory  = "Выберите категорию для новой услуги:"
	msgEnterName    = "Введите название услуги:"
	msgEnterPrice   = "Введите цену услуги (только число):"
	msgBadPrice     = "Пожалуйста, введите корректное число:"
	msgServiceAdded = "✅ Услуга успешно добавлена!"

	msgEditCategory  = "Выберите категорию для редактирования услуги:"
	msgEditPick      = "Выберите услугу для редактирования:"
	msgEnterNewName  = "Введите новое название услуги (или отправьте - чтобы не менять):"
	msgEnterNewPrice = "Введите новую цену услуги (или отправьте - чтобы не менять):"
	msgBadPriceEdit  = "Пожалуйста, введите корректное число или - чтобы не менять:"
	msgServiceEdited = "✅ Услуга успешно отредактирована!"

	msgDeleteCategory  = "Выберите категорию для удаления услуги:"
	msgDeletePick      = "Выберите услугу для удаления:"
	msgDeleteCancelled = "Удаление отменено."
	msgExportDone      = "Экспорт выполнен!"

	msgCancelledAdd      = "Добавление отменено."
	msgCancelledEdit     = "Редактирование отменено."
	msgCancelledDelete   = "Удаление отменено."
	msgCancelledPassword = "Ввод пароля отменён."
	msgNothingToCancel   = "Нет активной операции для отмены."

	msgError         = "Произошла ошибка. Попробуйте ещё раз."
	msgUnknownAction = "Неизвестное действие."

	btnCar        = "🚗 Автомобиль"
	btnMoto       = "🏍️ Мотоцикл"
	btnAdditional = "🛠 Доп. услуги"
	btnClear      = "🧹 Очистить выбор"
	btnFinish     = "✅ Завершить выбор"
	btnGetPDF     = "📄 Получить счёт в PDF"

	btnViewServices  = "📂 Посмотреть услуги"
	btnAddService    = "➕ Добавить услугу"
	btnEditService   = "✏️ Редактировать услугу"
	btnDeleteService = "🗑 Удалить услугу"
	btnExportJSON    = "📁 Экспорт JSON"
	btnConfirmDelete = "✅ Да, удалить"
	btnCancelDelete  = "❌ Нет"
	btnBack          = "⬅️ Назад"

	descStart  = "Запустить бота"
	descAdmin  = "Панель администратора (требуется пароль)"
	descLogout = "Выйти из режима администратора"
	descCancel = "Отменить текущую операцию"
)

// categoryTitles maps category keys to their button labels.
var categoryTitles = map[string]string{
	"car":        btnCar,
	"moto":       btnMoto,
	"additional": btnAdditional,
}
