package bot

const (
	helpText = "Commands:\n" +
		"/set_profile - create your profile\n" +
		"/delete_profile - delete your profile\n" +
		"/log_water <ml> - log the water you drank\n" +
		"/log_food <food> <grams> - log the food you ate\n" +
		"/log_workout - log a workout\n" +
		"/check_progress - show your progress\n" +
		"/cancel - cancel the current dialogue"

	msgProfileExists    = "Profile already exists. Use /delete_profile to delete it first"
	msgNoProfile        = "Profile not found. Create one first with /set_profile"
	msgProfileDeleted   = "Profile deleted"
	msgProfileNotFound  = "Profile not found"
	msgCancelled        = "Cancelled"
	msgNothingToCancel  = "Nothing to cancel"
	msgUnknownCommand   = "Unknown command. Use /help to see what I can do"
	msgNoDialogue       = "Use /help to see the available commands"
	msgWorkoutExpired   = "This workout dialogue has expired. Use /log_workout to start again"
	msgDialogueExpired  = "This dialogue has expired. Use /set_profile or /log_workout to start again"
	msgSomethingWrong   = "Something went wrong, please try again"
	msgLogWaterUsage    = "Usage: /log_water <ml>, e.g. /log_water 250"
	msgLogFoodUsage     = "Usage: /log_food <food> <grams>, e.g. /log_food banana 120"
	msgNoNutritionData  = "No data for '%s', try a different spelling"
	msgWaterLogged      = "Logged %d ml of water. %d ml left to reach your goal"
	msgWaterGoalReached = "Logged %d ml of water. Water goal reached!"
	msgFoodLogged       = "%s, %d g: %d kcal (fat %d g, protein %d g, carbs %d g)"
	msgCaloriesLeft     = "%d kcal left for today"
	msgCalorieGoal      = "Calorie goal reached!"
)
